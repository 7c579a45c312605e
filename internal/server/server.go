package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Salvatore112/pvz-task/internal/auth"
	"github.com/Salvatore112/pvz-task/internal/config"
	"github.com/Salvatore112/pvz-task/internal/metrics"
	"github.com/Salvatore112/pvz-task/internal/models"
	"github.com/Salvatore112/pvz-task/internal/storage"
	"github.com/Salvatore112/pvz-task/internal/storage/drivers"
	"github.com/Salvatore112/pvz-task/lib/middleware"
)

var validCities = map[string]bool{
	"Москва":          true,
	"Санкт-Петербург": true,
	"Казань":          true,
}

var validProductTypes = map[string]bool{
	"электроника": true,
	"одежда":      true,
	"обувь":       true,
}

const (
	defaultPage  = 1
	defaultLimit = 10
)

type Server struct {
	router  *gin.Engine
	storage storage.Storage
	config  config.Config
}

type ServerOpts struct {
	Storage storage.Storage
	Config  config.Config
}

func NewServer(opts ServerOpts) *Server {
	return &Server{
		router:  gin.Default(),
		storage: opts.Storage,
		config:  opts.Config,
	}
}

func (s *Server) Run(addr string) error {
	s.SetupRoutes()

	go func() {
		metricsServer := &http.Server{
			Addr:    s.config.ListenMetrics,
			Handler: promhttp.Handler(),
		}
		slog.Info("Listening and serving Prometheus", slog.String("addr", s.config.ListenMetrics))
		metricsServer.ListenAndServe()
	}()

	return s.router.Run(addr)
}

func (s *Server) SetupRoutes() {
	s.router.Use(PrometheusMiddleware())

	// Public routes
	s.router.POST("/dummyLogin", s.dummyLogin)
	s.router.POST("/register", s.register)
	s.router.POST("/login", s.login)

	// Authenticated routes
	authGroup := s.router.Group("/")
	authGroup.Use(middleware.AuthMiddleware(s.storage))
	{
		authGroup.POST("/pvz", s.createPVZ)
		authGroup.GET("/pvz", s.getPVZs)
		authGroup.POST("/receptions", s.createReception)
		authGroup.POST("/products", s.addProduct)
		authGroup.POST("/pvz/:pvzId/close_last_reception", s.closeLastReception)
		authGroup.POST("/pvz/:pvzId/delete_last_product", s.deleteLastProduct)
	}
}

// currentUser returns the account resolved by the auth middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.UserKey).(*models.User)
}

// dummyLogin issues a token for an ephemeral role-only account
func (s *Server) dummyLogin(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if !auth.Role(req.Role).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	user := &models.User{
		ID:   uuid.New().String(),
		Role: req.Role,
	}

	if err := s.storage.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token := auth.NewToken()
	if err := s.storage.SaveToken(c.Request.Context(), token, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !auth.Role(req.Role).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
	}

	if err := s.storage.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, drivers.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

// login issues a fresh token; previously issued tokens stay valid
func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.storage.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, drivers.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token := auth.NewToken()
	if err := s.storage.SaveToken(c.Request.Context(), token, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// createPVZ handles PVZ creation (moderator only)
func (s *Server) createPVZ(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpCreatePVZ) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req struct {
		City string `json:"city" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validCities[req.City] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid city"})
		return
	}

	pvz := models.PVZ{
		ID:               uuid.New().String(),
		RegistrationDate: time.Now(),
		City:             req.City,
	}

	if err := s.storage.CreatePVZ(c.Request.Context(), &pvz); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create PVZ"})
		return
	}

	metrics.PVZCreated.Inc()

	c.JSON(http.StatusCreated, pvz)
}

// getPVZs lists PVZs with their receptions and products
func (s *Server) getPVZs(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpListPVZ) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var filter models.PVZFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if filter.Page == 0 {
		filter.Page = defaultPage
	}
	if filter.Limit == 0 {
		filter.Limit = defaultLimit
	}

	items, err := s.storage.ListPVZs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get PVZs"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// createReception opens a reception (employee only)
func (s *Server) createReception(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpOpenReception) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req struct {
		PVZID string `json:"pvzId" binding:"required,uuid"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reception := models.Reception{
		ID:       uuid.New().String(),
		DateTime: time.Now(),
		PVZID:    req.PVZID,
		Status:   models.ReceptionInProgress,
	}

	if err := s.storage.CreateReception(c.Request.Context(), &reception); err != nil {
		switch {
		case errors.Is(err, drivers.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PVZ not found"})
		case errors.Is(err, drivers.ErrOpenReceptionExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "there is already an open reception"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reception"})
		}
		return
	}

	metrics.ReceptionsCreated.Inc()

	c.JSON(http.StatusCreated, reception)
}

// addProduct appends a product to the open reception (employee only)
func (s *Server) addProduct(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpAddProduct) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req struct {
		Type  string `json:"type" binding:"required"`
		PVZID string `json:"pvzId" binding:"required,uuid"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validProductTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product type"})
		return
	}

	product := models.Product{
		ID:       uuid.New().String(),
		DateTime: time.Now(),
		Type:     req.Type,
	}

	if err := s.storage.AddProduct(c.Request.Context(), req.PVZID, &product); err != nil {
		switch {
		case errors.Is(err, drivers.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PVZ not found"})
		case errors.Is(err, drivers.ErrNoOpenReception):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no open reception found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
		}
		return
	}

	metrics.ProductsAdded.Inc()

	c.JSON(http.StatusCreated, product)
}

// closeLastReception closes the open reception (employee only)
func (s *Server) closeLastReception(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpCloseReception) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	pvzID := c.Param("pvzId")
	if _, err := uuid.Parse(pvzID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PVZ ID"})
		return
	}

	reception, err := s.storage.CloseReception(c.Request.Context(), pvzID)
	if err != nil {
		switch {
		case errors.Is(err, drivers.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PVZ not found"})
		case errors.Is(err, drivers.ErrNoOpenReception):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no open reception found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close reception"})
		}
		return
	}

	c.JSON(http.StatusOK, reception)
}

// deleteLastProduct removes the last added product, LIFO (employee only)
func (s *Server) deleteLastProduct(c *gin.Context) {
	user := currentUser(c)
	if !auth.Allowed(auth.Role(user.Role), auth.OpDeleteProduct) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	pvzID := c.Param("pvzId")
	if _, err := uuid.Parse(pvzID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PVZ ID"})
		return
	}

	product, err := s.storage.DeleteLastProduct(c.Request.Context(), pvzID)
	if err != nil {
		switch {
		case errors.Is(err, drivers.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "PVZ not found"})
		case errors.Is(err, drivers.ErrNoOpenReception):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no open reception found"})
		case errors.Is(err, drivers.ErrNoProducts):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no products to delete"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "product": product})
}
