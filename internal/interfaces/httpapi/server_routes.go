package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/boxscore", RequireAuth(verifier, http.HandlerFunc(handler.GetBoxScore)))
	mux.Handle("GET /v1/readout", RequireAuth(verifier, http.HandlerFunc(handler.GetReadout)))
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/status", RequireAuth(verifier, http.HandlerFunc(handler.GetStatus)))
	mux.Handle("GET /v1/formulas", RequireAuth(verifier, http.HandlerFunc(handler.ListFormulas)))
	mux.Handle("GET /v1/props/{propID}/preflight", RequireAuth(verifier, http.HandlerFunc(handler.PreflightProp)))
	mux.Handle("POST /v1/gradePropByFormula", RequireAuth(verifier, http.HandlerFunc(handler.GradeProp)))
	mux.Handle("POST /v1/selection", RequireAuth(verifier, http.HandlerFunc(handler.SelectEvent)))
	mux.Handle("GET /v1/selection", RequireAuth(verifier, http.HandlerFunc(handler.GetSelection)))
	mux.Handle("DELETE /v1/selection", RequireAuth(verifier, http.HandlerFunc(handler.ClearSelection)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/packs/{packID}/grade", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GradePack)))
}
