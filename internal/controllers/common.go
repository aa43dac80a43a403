package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// Every authorization denial uses this exact body. The message never says
// whether the denial came from the role or from a tenant mismatch.
func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
}

func respondNotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func respondConflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, gin.H{"error": msg})
}

func respondInvalid(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// parseIDParam reads a numeric URL parameter. Responds 400 and returns
// false when it is not a positive integer.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondInvalid(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// isUniqueViolation reports whether err is a duplicate-key error from
// Postgres (SQLSTATE 23505). The unique indexes declared on the models are
// the atomic backstop for the check-then-write pre-checks in the guards.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

// prefixPattern builds a LIKE/ILIKE pattern matching values that start
// with v, with LIKE metacharacters escaped.
func prefixPattern(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `%`, `\%`)
	v = strings.ReplaceAll(v, `_`, `\_`)
	return v + "%"
}
