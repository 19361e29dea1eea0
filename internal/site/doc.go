// Package site serves the book page over HTTP.
//
// Every browser tab gets a visitor session, identified by the bp_session
// cookie and carried in the page as data-session. The page works without
// scripting: the language toggle, the waitlist form, the carousel and the
// toast close buttons all post plain forms and redirect back. With
// scripting, the live client attaches to /_live and sends events over a
// WebSocket; every state change of the session is pushed back as a full
// render of the page root.
//
// Routes, relative to the configured base path:
//
//	GET  /               the page
//	POST /language       switch language (field lang, empty toggles)
//	POST /waitlist       join the waitlist (field email)
//	POST /toast/dismiss  close a toast (field id)
//	POST /carousel       move the preview carousel (field dir)
//	GET  /_live          live WebSocket
//	GET  /static/*       embedded assets, fingerprinted
//	GET  /healthz        liveness
//	GET  /metrics        Prometheus metrics
package site
