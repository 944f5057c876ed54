package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/playpool/aimline/internal/config"
	"github.com/playpool/aimline/internal/models"
	"github.com/playpool/aimline/internal/store"
)

const tokenTTL = 24 * time.Hour

// LayoutRepository is the persistence the profile and layout routes need.
type LayoutRepository interface {
	CreateProfile(ctx context.Context, name, pin string) (*models.Profile, error)
	Authenticate(ctx context.Context, name, pin string) (*models.Profile, error)
	ListLayouts(ctx context.Context, profileID int) ([]models.Layout, error)
	GetLayout(ctx context.Context, profileID int, name string) (*models.Layout, error)
	SaveLayout(ctx context.Context, profileID int, name string, snapshot []byte) (*models.Layout, error)
	DeleteLayout(ctx context.Context, profileID int, name string) error
}

type credentials struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// validPIN checks the PIN is 4 to 8 digits
func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func issueToken(secret string, p *models.Profile) (string, time.Time, error) {
	exp := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{"profile_id": p.ID, "name": p.Name, "exp": exp.Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, exp, err
}

func parseToken(secret, token string) (int, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token")
	}
	id, ok := claims["profile_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token")
	}
	return int(id), nil
}

// CreateProfile registers a profile that can own saved layouts.
func CreateProfile(repo LayoutRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and pin required"})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || !validPIN(req.PIN) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required and pin must be 4-8 digits"})
			return
		}

		p, err := repo.CreateProfile(c.Request.Context(), name, req.PIN)
		if errors.Is(err, store.ErrProfileExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "profile already exists"})
			return
		}
		if err != nil {
			log.Printf("[API] create profile %s failed: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		token, exp, err := issueToken(cfg.JWTSecret, p)
		if err != nil {
			log.Printf("[API] failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "expires_at": exp.Format(time.RFC3339), "profile": p})
	}
}

// Login checks a name and PIN and issues a JWT.
func Login(repo LayoutRepository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentials
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and pin required"})
			return
		}

		p, err := repo.Authenticate(c.Request.Context(), strings.TrimSpace(req.Name), req.PIN)
		if errors.Is(err, store.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid name or pin"})
			return
		}
		if err != nil {
			log.Printf("[API] login for %s failed: %v", req.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		token, exp, err := issueToken(cfg.JWTSecret, p)
		if err != nil {
			log.Printf("[API] failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.Format(time.RFC3339), "profile": p})
	}
}

// AuthMiddleware validates the bearer JWT and sets profile_id in context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		id, err := parseToken(cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("profile_id", id)
		c.Next()
	}
}
