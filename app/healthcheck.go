package main

import "net/http"

// healthCheckHandler reports service availability for load balancers and
// uptime probes.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := envelope{
		"status":      "available",
		"environment": app.config.Environment,
		"version":     app.config.Version,
	}

	if err := app.writeJSON(w, http.StatusOK, data, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
