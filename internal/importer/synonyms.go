package importer

// Header synonym tables, one per import kind. Keys are in NormalizeHeader
// form (lower-cased, accents stripped, punctuation collapsed to spaces), so
// "E-Mail", "e_mail" and "É-mail" all land on "e mail". Aliases cover the
// English, French and Arabic spreadsheets seen in the field; extending a
// table is a data change, not a logic change.

var staffSynonyms = SynonymTable{
	// fullName
	"full name":   "fullName",
	"fullname":    "fullName",
	"name":        "fullName",
	"staff name":  "fullName",
	"member name": "fullName",
	"nom":         "fullName",
	"nom complet": "fullName",
	"nom et prenom": "fullName",
	"الاسم":        "fullName",
	"الاسم الكامل": "fullName",

	// email
	"email":         "email",
	"e mail":        "email",
	"mail":          "email",
	"email address": "email",
	"courriel":      "email",
	"adresse email": "email",
	"البريد":            "email",
	"البريد الالكتروني": "email",

	// phone
	"phone":        "phone",
	"phone number": "phone",
	"telephone":    "phone",
	"tel":          "phone",
	"mobile":       "phone",
	"gsm":          "phone",
	"numero de telephone": "phone",
	"الهاتف":     "phone",
	"رقم الهاتف": "phone",

	// role
	"role":       "role",
	"position":   "role",
	"job":        "role",
	"job title":  "role",
	"fonction":   "role",
	"poste":      "role",
	"specialite": "role",
	"specialty":  "role",
	"الدور":    "role",
	"الوظيفة":  "role",
	"التخصص":   "role",

	// password
	"password":     "password",
	"pass":         "password",
	"mot de passe": "password",
	"كلمة المرور":  "password",
	"كلمة السر":    "password",
}

var familySynonyms = SynonymTable{
	// fullName
	"full name":     "fullName",
	"fullname":      "fullName",
	"name":          "fullName",
	"parent name":   "fullName",
	"guardian name": "fullName",
	"family name":   "fullName",
	"nom":           "fullName",
	"nom complet":   "fullName",
	"nom du parent": "fullName",
	"الاسم":         "fullName",
	"اسم ولي الامر": "fullName",

	// email
	"email":         "email",
	"e mail":        "email",
	"mail":          "email",
	"email address": "email",
	"parent email":  "email",
	"courriel":      "email",
	"adresse email": "email",
	"البريد":            "email",
	"البريد الالكتروني": "email",

	// phone
	"phone":        "phone",
	"phone number": "phone",
	"telephone":    "phone",
	"tel":          "phone",
	"mobile":       "phone",
	"numero de telephone": "phone",
	"الهاتف":     "phone",
	"رقم الهاتف": "phone",

	// password
	"password":     "password",
	"pass":         "password",
	"mot de passe": "password",
	"كلمة المرور":  "password",
	"كلمة السر":    "password",
}

var dependentSynonyms = SynonymTable{
	// fullName
	"child name":      "fullName",
	"child full name": "fullName",
	"dependent name":  "fullName",
	"full name":       "fullName",
	"fullname":        "fullName",
	"name":            "fullName",
	"nom de l enfant": "fullName",
	"nom enfant":      "fullName",
	"اسم الطفل":       "fullName",

	// dateOfBirth
	"date of birth":     "dateOfBirth",
	"birth date":        "dateOfBirth",
	"birthdate":         "dateOfBirth",
	"birthday":          "dateOfBirth",
	"dob":               "dateOfBirth",
	"date de naissance": "dateOfBirth",
	"naissance":         "dateOfBirth",
	"تاريخ الميلاد":     "dateOfBirth",

	// gender
	"gender": "gender",
	"sex":    "gender",
	"sexe":   "gender",
	"genre":  "gender",
	"الجنس":  "gender",

	// parentEmail
	"parent email":    "parentEmail",
	"guardian email":  "parentEmail",
	"email parent":    "parentEmail",
	"email du parent": "parentEmail",
	"بريد ولي الامر":  "parentEmail",

	// diagnosis
	"diagnosis":  "diagnosis",
	"diagnostic": "diagnosis",
	"التشخيص":    "diagnosis",

	// medicalHistory
	"medical history":       "medicalHistory",
	"history":               "medicalHistory",
	"antecedents medicaux":  "medicalHistory",
	"antecedents":           "medicalHistory",
	"السجل الطبي":           "medicalHistory",
	"التاريخ الطبي":         "medicalHistory",

	// allergies
	"allergies": "allergies",
	"allergie":  "allergies",
	"الحساسية":  "allergies",

	// medications
	"medications": "medications",
	"medication":  "medications",
	"medicaments": "medications",
	"الادوية":     "medications",

	// notes
	"notes":     "notes",
	"note":      "notes",
	"comments":  "notes",
	"remarques": "notes",
	"ملاحظات":   "notes",
}

var familyDependentSynonyms = SynonymTable{
	// parentName
	"parent name":      "parentName",
	"parent full name": "parentName",
	"guardian name":    "parentName",
	"nom du parent":    "parentName",
	"اسم ولي الامر":    "parentName",

	// parentEmail
	"parent email":    "parentEmail",
	"guardian email":  "parentEmail",
	"email parent":    "parentEmail",
	"email du parent": "parentEmail",
	"بريد ولي الامر":  "parentEmail",

	// parentPhone
	"parent phone":          "parentPhone",
	"guardian phone":        "parentPhone",
	"telephone du parent":   "parentPhone",
	"telephone parent":      "parentPhone",
	"هاتف ولي الامر":        "parentPhone",

	// parentPassword
	"parent password":        "parentPassword",
	"mot de passe du parent": "parentPassword",
	"كلمة مرور ولي الامر":    "parentPassword",

	// childName
	"child name":      "childName",
	"child full name": "childName",
	"dependent name":  "childName",
	"nom de l enfant": "childName",
	"nom enfant":      "childName",
	"اسم الطفل":       "childName",

	// dateOfBirth
	"date of birth":     "dateOfBirth",
	"birth date":        "dateOfBirth",
	"birthdate":         "dateOfBirth",
	"birthday":          "dateOfBirth",
	"dob":               "dateOfBirth",
	"date de naissance": "dateOfBirth",
	"naissance":         "dateOfBirth",
	"تاريخ الميلاد":     "dateOfBirth",

	// gender
	"gender": "gender",
	"sex":    "gender",
	"sexe":   "gender",
	"genre":  "gender",
	"الجنس":  "gender",

	// diagnosis
	"diagnosis":  "diagnosis",
	"diagnostic": "diagnosis",
	"التشخيص":    "diagnosis",

	// medicalHistory
	"medical history":      "medicalHistory",
	"history":              "medicalHistory",
	"antecedents medicaux": "medicalHistory",
	"antecedents":          "medicalHistory",
	"السجل الطبي":          "medicalHistory",
	"التاريخ الطبي":        "medicalHistory",

	// allergies
	"allergies": "allergies",
	"allergie":  "allergies",
	"الحساسية":  "allergies",

	// medications
	"medications": "medications",
	"medication":  "medications",
	"medicaments": "medications",
	"الادوية":     "medications",

	// notes
	"notes":     "notes",
	"note":      "notes",
	"comments":  "notes",
	"remarques": "notes",
	"ملاحظات":   "notes",
}
