package main

import (
	"crypto/sha256"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App carries the dependencies shared by all handlers.
type App struct {
	db        *gorm.DB
	store     *sessions.CookieStore
	log       *logrus.Logger
	metrics   *Metrics
	templates map[string]*template.Template
	staticDir string
	csrfKey   [32]byte
	secure    bool
}

func newApp(cfg Config, db *gorm.DB, log *logrus.Logger) (*App, error) {
	templates, err := loadTemplates(cfg.Templates)
	if err != nil {
		return nil, err
	}
	return &App{
		db:        db,
		store:     newStore(cfg.SecretKey, cfg.SecureCookies),
		log:       log,
		metrics:   InitMetrics(),
		templates: templates,
		staticDir: cfg.Static,
		csrfKey:   sha256.Sum256([]byte("csrf:" + cfg.SecretKey)),
		secure:    cfg.SecureCookies,
	}, nil
}

func (a *App) setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = a.observe(http.NotFoundHandler())
	r.MethodNotAllowedHandler = a.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
	r.Use(a.observe, a.loadUser, a.markPlaintext, csrf.Protect(a.csrfKey[:],
		csrf.Secure(a.secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfFieldName),
		csrf.ErrorHandler(http.HandlerFunc(a.csrfFailure)),
	))

	fs := http.FileServer(http.Dir(a.staticDir))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
	r.Handle("/metrics", a.metrics.Handler()).Methods("GET")

	r.HandleFunc("/register", a.registerHandler).Methods("GET", "POST")
	r.HandleFunc("/login", a.loginHandler).Methods("GET", "POST")
	r.HandleFunc("/logout", a.logoutHandler).Methods("GET", "POST")

	r.HandleFunc("/", a.requireLogin(a.homeHandler)).Methods("GET")
	r.HandleFunc("/tweet/add", a.requireLogin(a.tweetCreateHandler)).Methods("GET", "POST")
	r.HandleFunc("/tweet/{id:[0-9]+}", a.requireLogin(a.tweetDetailHandler)).Methods("GET")
	r.HandleFunc("/tweet/{id:[0-9]+}", a.requireLogin(a.commentCreateHandler)).Methods("POST")
	r.HandleFunc("/tweet/{id:[0-9]+}/delete", a.requireLogin(a.tweetDeleteHandler)).Methods("GET", "POST")
	r.HandleFunc("/comment/{id:[0-9]+}/delete", a.requireLogin(a.commentDeleteHandler)).Methods("POST")
	r.HandleFunc("/user/{id:[0-9]+}/tweets", a.requireLogin(a.userTweetsHandler)).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}/delete", a.requireLogin(a.userDeleteHandler)).Methods("GET", "POST")

	r.HandleFunc("/profile", a.requireLogin(a.profileHandler)).Methods("GET", "POST")
	r.HandleFunc("/profile/password", a.requireLogin(a.changePasswordHandler)).Methods("GET", "POST")

	r.HandleFunc("/messages", a.requireLogin(a.messagesIndexHandler)).Methods("GET")
	r.HandleFunc("/messages/send/{id:[0-9]+}", a.requireLogin(a.messageSendHandler)).Methods("GET", "POST")
	r.HandleFunc("/messages/received", a.requireLogin(a.messagesReceivedHandler)).Methods("GET")
	r.HandleFunc("/messages/sent", a.requireLogin(a.messagesSentHandler)).Methods("GET")
	r.HandleFunc("/messages/received/{id:[0-9]+}", a.requireLogin(a.messageReceivedDetailHandler)).Methods("GET")
	r.HandleFunc("/messages/sent/{id:[0-9]+}", a.requireLogin(a.messageSentDetailHandler)).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}/delete", a.requireLogin(a.messageDeleteHandler)).Methods("POST")

	return r
}
