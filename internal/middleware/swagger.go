package middleware

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerConfig represents the configuration for the Swagger UI
type SwaggerConfig struct {
	URL          string
	DocExpansion string
	Username     string
	Password     string
}

// DefaultSwaggerConfig returns the default Swagger configuration
func DefaultSwaggerConfig() *SwaggerConfig {
	return &SwaggerConfig{
		URL:          "/swagger/doc.json",
		DocExpansion: "list",
	}
}

// SwaggerHandler serves the Swagger UI, behind basic auth when credentials are set
func SwaggerHandler(config *SwaggerConfig) http.Handler {
	if config == nil {
		config = DefaultSwaggerConfig()
	}

	ui := httpSwagger.Handler(
		httpSwagger.URL(config.URL),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion(config.DocExpansion),
		httpSwagger.DomID("swagger-ui"),
	)
	if config.Username == "" && config.Password == "" {
		return ui
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != config.Username || pass != config.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="API Documentation"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ui.ServeHTTP(w, r)
	})
}
