package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"systems-console/internal/domain/ports/repository"
	"systems-console/internal/infra/i18n"
	"systems-console/internal/usecase"
)

type Server struct {
	keys     usecase.ActivationKeyUseCase
	users    usecase.UserUseCase
	configs  usecase.ConfigUseCase
	userRepo repository.UserRepository
	auth     *AuthManager
	tr       *i18n.Translator
	validate *validator.Validate
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewServer(
	keys usecase.ActivationKeyUseCase,
	users usecase.UserUseCase,
	configs usecase.ConfigUseCase,
	userRepo repository.UserRepository,
	auth *AuthManager,
	tr *i18n.Translator,
	timeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		keys:     keys,
		users:    users,
		configs:  configs,
		userRepo: userRepo,
		auth:     auth,
		tr:       tr,
		validate: newValidator(),
		timeout:  timeout,
		log:      logger,
	}
}

// Routes builds the console router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	if s.timeout > 0 {
		r.Use(Timeout(s.timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.Authenticate)

		r.Route("/activationkeys", func(r chi.Router) {
			r.Get("/create", s.handleKeyCreateSetup)
			r.Post("/create", s.handleKeyCreate)
			r.Get("/edit", s.handleKeyEditSetup)
			r.Post("/edit", s.handleKeyUpdate)
		})

		r.Get("/users/enable", s.handleEnableUserSetup)
		r.Post("/users/enable", s.handleEnableUser)

		r.Get("/configuration/file/download", s.handleConfigDownload)
	})
	return r
}
