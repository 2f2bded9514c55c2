package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/shared/auth"
)

// otpRequestLimit mirrors the fixed rate limit in front of the OTP-issuing
// endpoints: 3 requests per minute per IP.
const otpRequestLimit = 3

// NewRouter wires every route, middleware stack, and the static uploads
// prefix.
func NewRouter(
	cfg *config.Config,
	logger *zerolog.Logger,
	jwtAuth auth.JWTAuthenticator,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	productHandler *ProductHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	})

	otpLimiter := httprate.LimitByIP(otpRequestLimit, time.Minute)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(otpLimiter).Post("/register", authHandler.Register)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.With(otpLimiter).Post("/resend-otp", authHandler.ResendOTP)
		r.With(otpLimiter).Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-reset-otp", authHandler.VerifyResetOTP)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Post("/login", authHandler.Login)
		r.Post("/google-login", authHandler.GoogleLogin)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(Authenticate(jwtAuth, cfg.Token.Secret))
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}/profile", userHandler.UpdateProfile)
		r.With(RequireAdmin).Patch("/{id}/role", userHandler.UpdateRole)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.SearchProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Post("/upload", productHandler.UploadProduct)
		r.Get("/{id}", productHandler.GetProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})

	// Uploaded images are served from the local uploads directory. The CORP
	// header lets frontend origins embed them.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
		fileServer.ServeHTTP(w, r)
	})

	return r
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
