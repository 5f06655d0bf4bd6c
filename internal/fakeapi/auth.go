package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spoadmin/spoadmin/internal/models"
)

const (
	bearerPrefix   = "Bearer "
	currentUserKey = "current_user"
)

// Claims represents the access token claims
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func hashPassword(password string) ([]byte, error) {
	// MinCost keeps seeding fast; the fake never guards real accounts
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

// IssueToken signs an access token for a user that expires after ttl.
// A negative ttl yields an already expired token.
func (s *Server) IssueToken(userID int, ttl time.Duration) (string, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("user %d not found", userID)
	}

	now := s.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if !s.bind(c, &req) {
		return
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if u.Login == req.Login {
			found = u
			break
		}
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.PasswordHash, []byte(req.Password)) != nil {
		detail(c, http.StatusUnauthorized, "Incorrect login or password")
		return
	}

	token, err := s.IssueToken(found.ID, s.tokenTTL)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(c *gin.Context) {
	u := currentUser(c)

	profile := models.UserProfile{
		ID:    u.ID,
		Login: u.Login,
		Role:  u.Role,
		SpoID: u.SpoID,
	}

	if u.SpoID != nil {
		s.mu.Lock()
		if spo, ok := s.spo[*u.SpoID]; ok {
			name := spo.Name
			profile.SpoName = &name
		}
		s.mu.Unlock()
	}

	c.JSON(http.StatusOK, profile)
}

// requireUser resolves the bearer token to an account
func (s *Server) requireUser(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) || strings.TrimPrefix(authHeader, bearerPrefix) == "" {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims, err := s.parseToken(strings.TrimPrefix(authHeader, bearerPrefix))
	if err != nil {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		detail(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.Set(currentUserKey, u)
	c.Next()
}

func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u.Role != role {
			detail(c, http.StatusForbidden, fmt.Sprintf("%s access required", role))
			return
		}
		if role == models.RoleOperator && u.SpoID == nil {
			detail(c, http.StatusForbidden, "Operator is not assigned to an SPO")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *user {
	v, _ := c.Get(currentUserKey)
	u, _ := v.(*user)
	return u
}
