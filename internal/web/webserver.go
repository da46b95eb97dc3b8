// Package web provides the HTTP server and the starter samples for go-starters
package web

// The samples live in separate files:
/*

	### **Core Files:**
	1. **`webserver_core_routes.go`** - Server setup, middleware and lifecycle
	2. **`web_samples.go`** - The ordered route table of each sample

	### **Handler Files:**
	3. **`web_homePage.go`** - Server-rendered home page
	4. **`web_apiHandlers.go`** - JSON hello and body echo endpoints
	5. **`web_spa.go`** - index.html fallback for client-side routes

	### **Assets:**
	6. **`embedded_static.go`** - Embedded single-page app under app/

*/
