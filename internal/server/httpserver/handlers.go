package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Wire DTOs. The shapes are the contract with the device client; field names
// must stay stable across releases.

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type wireEntry struct {
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

type pushRequest struct {
	Progress map[string]wireEntry `json:"progress"`
}

type wireBreakdown struct {
	Term    string                 `json:"term"`
	Parts   []models.BreakdownPart `json:"parts"`
	Literal string                 `json:"literal"`
	Notes   string                 `json:"notes"`
	Updated int64                  `json:"updated_at"`
	By      string                 `json:"updated_by"`
}

type saveBreakdownRequest struct {
	ID      string                 `json:"id"`
	Term    string                 `json:"term"`
	Parts   []models.BreakdownPart `json:"parts"`
	Literal string                 `json:"literal"`
	Notes   string                 `json:"notes"`
}

type wireAPIKey struct {
	Key   string `json:"key"`
	Model string `json:"model"`
}

type configPayload struct {
	ManagedServerURL string                `json:"managed_server_url"`
	SharedAPIKeys    map[string]wireAPIKey `json:"shared_api_keys"`
}

func encodeEntries(entries map[string]models.ProgressEntry) map[string]wireEntry {
	out := make(map[string]wireEntry, len(entries))
	for id, e := range entries {
		out[id] = wireEntry{Status: e.Status, UpdatedAt: e.UpdatedAt}
	}
	return out
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, common.ErrorUnauthorized):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		default:
			s.logger.Error(c.Request.Context(), "register failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID, "username": user.Username})
}

func (s *Server) handlePush(c *gin.Context) {
	user := currentUser(c)

	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	entries := make(map[string]models.ProgressEntry, len(req.Progress))
	for id, e := range req.Progress {
		entries[id] = models.ProgressEntry{Status: e.Status, UpdatedAt: e.UpdatedAt}
	}

	result, err := s.progress.Push(c.Request.Context(), user.ID, entries)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error(c.Request.Context(), "push failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	accepted := result.Accepted
	if accepted == nil {
		accepted = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"rejected": encodeEntries(result.Rejected),
	})
}

func (s *Server) handlePull(c *gin.Context) {
	user := currentUser(c)

	entries, err := s.progress.Pull(c.Request.Context(), user.ID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "pull failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": encodeEntries(entries)})
}

func (s *Server) handleListBreakdowns(c *gin.Context) {
	all, err := s.breakdowns.List(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "breakdown list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make(map[string]wireBreakdown, len(all))
	for id, b := range all {
		out[id] = wireBreakdown{
			Term:    b.Term,
			Parts:   b.Parts,
			Literal: b.LiteralTranslation,
			Notes:   b.Notes,
			Updated: b.UpdatedAt,
			By:      b.UpdatedBy,
		}
	}
	c.JSON(http.StatusOK, gin.H{"breakdowns": out})
}

func (s *Server) handleSaveBreakdown(c *gin.Context) {
	user := currentUser(c)

	var req saveBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing id"})
		return
	}

	b := models.Breakdown{
		CardID:             req.ID,
		Term:               req.Term,
		Parts:              req.Parts,
		LiteralTranslation: req.Literal,
		Notes:              req.Notes,
	}

	if err := s.breakdowns.Save(c.Request.Context(), user, b); err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only admins may replace existing content"})
			return
		}
		s.logger.Error(c.Request.Context(), "breakdown save failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	names, err := s.users.AdminUsernames(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "admin list failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"admin_usernames": names})
}

func (s *Server) handleGetConfig(c *gin.Context) {
	url, err := s.config.ManagedServerURL(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "config read failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	keys, err := s.config.APIKeys(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "api key read failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	shared := make(map[string]wireAPIKey, len(keys))
	for _, k := range keys {
		shared[k.Name] = wireAPIKey{Key: k.Key, Model: k.Model}
	}

	c.JSON(http.StatusOK, configPayload{ManagedServerURL: url, SharedAPIKeys: shared})
}

func (s *Server) handleSetConfig(c *gin.Context) {
	var req configPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if err := s.config.SetManagedServerURL(c.Request.Context(), req.ManagedServerURL); err != nil {
		s.logger.Error(c.Request.Context(), "config write failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	for name, k := range req.SharedAPIKeys {
		if err := s.config.SetAPIKey(c.Request.Context(), models.APIKey{Name: name, Key: k.Key, Model: k.Model}); err != nil {
			s.logger.Error(c.Request.Context(), "api key write failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func (s *Server) handleListAPIKeys(c *gin.Context) {
	keys, err := s.config.APIKeys(c.Request.Context())
	if err != nil {
		s.logger.Error(c.Request.Context(), "api key read failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make(map[string]wireAPIKey, len(keys))
	for _, k := range keys {
		out[k.Name] = wireAPIKey{Key: k.Key, Model: k.Model}
	}
	c.JSON(http.StatusOK, gin.H{"api_keys": out})
}

func (s *Server) handleSetAPIKey(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Key   string `json:"key"`
		Model string `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing name"})
		return
	}

	if err := s.config.SetAPIKey(c.Request.Context(), models.APIKey{Name: req.Name, Key: req.Key, Model: req.Model}); err != nil {
		s.logger.Error(c.Request.Context(), "api key write failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}
