package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/authclient/logger"
)

const claimsKey = "claims"

type loginBody struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	ExpiresInMins int    `json:"expiresInMins" binding:"gte=0"`
}

type refreshBody struct {
	RefreshToken  string `json:"refreshToken" binding:"required"`
	ExpiresInMins int    `json:"expiresInMins" binding:"gte=0"`
}

type userResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Image     string `json:"image"`
}

type authResponse struct {
	userResponse
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := s.engine.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refresh)
	auth.GET("/me", s.bearer(), s.currentUser)
}

func (s *Server) login(c *gin.Context) {
	s.logins.Add(1)

	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password required"})
		return
	}

	u, ok := s.users[body.Username]
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(body.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
		return
	}

	access, refresh, err := s.tokens.issue(u, s.ttl(body.ExpiresInMins))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, authResponse{
		userResponse: toResponse(u),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (s *Server) refresh(c *gin.Context) {
	s.refreshes.Add(1)

	status, delay := s.refreshBehavior()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}
	if status != 0 {
		c.JSON(status, gin.H{"message": http.StatusText(status)})
		return
	}

	var body refreshBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Refresh token required"})
		return
	}

	userID, err := s.tokens.redeem(body.RefreshToken)
	if err != nil {
		s.log.Debug("refresh rejected", logger.Fields(logger.FieldError, err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid refresh token"})
		return
	}
	u := s.usersByID[userID]

	access, refresh, err := s.tokens.issue(u, s.ttl(body.ExpiresInMins))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (s *Server) currentUser(c *gin.Context) {
	s.me.Add(1)

	claims := c.MustGet(claimsKey).(*Claims)
	id, err := strconv.Atoi(claims.Subject)
	u, ok := s.usersByID[id]
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(u))
}

// bearer rejects requests without a valid access token.
func (s *Server) bearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.rejections.Add(1)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access Token is required"})
			return
		}

		claims, err := s.tokens.verify(token)
		if err != nil {
			s.rejections.Add(1)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid/Expired Token!"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (s *Server) ttl(expiresInMins int) time.Duration {
	if expiresInMins > 0 {
		return time.Duration(expiresInMins) * time.Minute
	}
	return s.accessTTL
}

func toResponse(u *user) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Image:     u.Image,
	}
}
