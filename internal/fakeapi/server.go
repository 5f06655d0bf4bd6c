// Package fakeapi is an in-memory implementation of the SPO administration API
// contract. It backs the client, session and command tests; state lives in maps
// and is lost when the server is dropped.
package fakeapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/spoadmin/spoadmin/internal/models"
)

const (
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "admin123"
	DefaultBaseQuota     = 25
)

// Server represents the fake API server
type Server struct {
	router    *gin.Engine
	logger    zerolog.Logger
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	nextID      int
	baseQuota   int
	users       map[int]*user
	spo         map[int]*models.Spo
	templates   map[int]*models.SpecialtyTemplate
	specialties map[int]*models.Specialty
	students    map[int]*models.Student
	requests    []string
}

type user struct {
	ID           int
	Login        string
	PasswordHash []byte
	Role         models.Role
	SpoID        *int
	CreatedAt    time.Time
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTokenTTL sets the lifetime of issued access tokens
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a fake server seeded with the default admin account
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		logger:      zerolog.Nop(),
		validator:   validator.New(),
		secret:      []byte("fakeapi-secret"),
		tokenTTL:    time.Hour,
		now:         time.Now,
		baseQuota:   DefaultBaseQuota,
		users:       make(map[int]*user),
		spo:         make(map[int]*models.Spo),
		templates:   make(map[int]*models.SpecialtyTemplate),
		specialties: make(map[int]*models.Specialty),
		students:    make(map[int]*models.Student),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.AddUser(DefaultAdminLogin, DefaultAdminPassword, models.RoleAdmin, nil)
	s.setupRouter()

	return s
}

// Handler returns the HTTP handler serving the API under /api
func (s *Server) Handler() http.Handler {
	return s.router
}

// Requests returns "METHOD path" of every request received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery(), s.recordRequest)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", s.requireUser, s.me)

	admin := api.Group("/admin", s.requireUser, s.requireRole(models.RoleAdmin))
	admin.GET("/spo", s.listSpo)
	admin.POST("/spo", s.createSpo)
	admin.GET("/spo/:id", s.getSpo)
	admin.PUT("/spo/:id", s.updateSpo)
	admin.DELETE("/spo/:id", s.deleteSpo)

	admin.GET("/operators", s.listOperators)
	admin.POST("/operators", s.createOperator)
	admin.DELETE("/operators/:id", s.deleteOperator)
	admin.POST("/operators/:id/reset-password", s.resetOperatorPassword)

	admin.GET("/settings", s.getSettings)
	admin.PUT("/settings", s.updateSettings)

	admin.GET("/specialty-templates", s.listTemplates)
	admin.POST("/specialty-templates", s.createTemplate)
	admin.PUT("/specialty-templates/:id", s.updateTemplate)
	admin.DELETE("/specialty-templates/:id", s.deleteTemplate)

	admin.GET("/specialties", s.listAdminSpecialties)
	admin.POST("/specialties", s.createAdminSpecialty)
	admin.DELETE("/specialties/:id", s.deleteAdminSpecialty)
	admin.PUT("/specialties/:id/quota", s.updateQuota)

	operator := api.Group("", s.requireUser, s.requireRole(models.RoleOperator))
	operator.GET("/specialties", s.listSpecialties)
	operator.GET("/students", s.listStudents)
	operator.POST("/students", s.createStudent)
	operator.PUT("/students/:id", s.updateStudent)
	operator.DELETE("/students/:id", s.deleteStudent)

	api.GET("/stats", s.requireUser, s.stats)

	s.router = router
}

func (s *Server) recordRequest(c *gin.Context) {
	s.mu.Lock()
	entry := c.Request.Method + " " + c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		entry += "?" + c.Request.URL.RawQuery
	}
	s.requests = append(s.requests, entry)
	s.mu.Unlock()

	c.Next()

	s.logger.Debug().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Msg("fakeapi request")
}

// Seeding helpers, used by tests to build a scenario without going through HTTP

// AddUser creates an account and returns its ID
func (s *Server) AddUser(login, password string, role models.Role, spoID *int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}

	s.nextID++
	s.users[s.nextID] = &user{
		ID:           s.nextID,
		Login:        login,
		PasswordHash: hash,
		Role:         role,
		SpoID:        spoID,
		CreatedAt:    s.now(),
	}
	return s.nextID
}

// AddSpo creates an SPO and returns its ID
func (s *Server) AddSpo(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.spo[s.nextID] = &models.Spo{ID: s.nextID, Name: name, CreatedAt: s.now()}
	return s.nextID
}

// AddTemplate creates a catalog entry and returns its ID
func (s *Server) AddTemplate(code, name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.templates[s.nextID] = &models.SpecialtyTemplate{ID: s.nextID, Code: code, Name: name, CreatedAt: s.now()}
	return s.nextID
}

// AddSpecialty assigns a catalog entry to an SPO with the given quota and returns its ID
func (s *Server) AddSpecialty(spoID, templateID, quota int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpl := s.templates[templateID]
	s.nextID++
	specialty := &models.Specialty{ID: s.nextID, SpoID: spoID, Quota: quota, CreatedAt: s.now()}
	if tmpl != nil {
		id, code := tmpl.ID, tmpl.Code
		specialty.TemplateID = &id
		specialty.Code = &code
		specialty.Name = tmpl.Name
	}
	s.specialties[s.nextID] = specialty
	return s.nextID
}

// AddStudent enrols a student without quota checks and returns its ID
func (s *Server) AddStudent(specialtyID int, fullName, attestat string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.students[s.nextID] = &models.Student{
		ID:             s.nextID,
		SpecialtyID:    specialtyID,
		FullName:       fullName,
		AttestatNumber: attestat,
		CreatedAt:      s.now(),
	}
	return s.nextID
}

func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

// bind decodes and validates a JSON body, answering 422 on failure
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}
