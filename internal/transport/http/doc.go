// Package http implements the HTTP handlers for the import service.
// It is a thin layer between transport and the import engine: handlers
// parse multipart uploads and mapping payloads, delegate to the service
// layer, and translate errors into RFC 7807 problem responses.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → importer.Service → Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/import/malformed-file",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Uploaded file could not be parsed",
//	    "instance": "/api/import/org-1/staff/execute"
//	}
package http
