package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crosshare-org/crosshare/pkg/fill"
	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/output"
)

// SolveRequest is the JSON body of a solve call.
type SolveRequest struct {
	Template    string `json:"template" binding:"required"`
	Discrepancy int    `json:"discrepancy"`
}

// SolveResponse is the JSON result of a successful solve.
type SolveResponse struct {
	ID       string               `json:"id"`
	Solution *output.SolutionJSON `json:"solution"`
	Cached   bool                 `json:"cached"`
}

// dbScorer adapts the word database to the output.Scorer interface.
type dbScorer struct {
	s *Server
}

func (d dbScorer) Lookup(word string) (int, bool) {
	w, _, ok := d.s.db.Lookup(word)
	return w.Score, ok
}

func (s *Server) handleSolve(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	resp, status, err := s.solve(c.Request.Context(), &req)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// solve runs one solve request through the cache and the engine,
// returning the response or an error with its HTTP status.
func (s *Server) solve(ctx context.Context, req *SolveRequest) (*SolveResponse, int, error) {
	key := cacheKey(req)
	if cached := s.cacheGet(ctx, key); cached != nil {
		cached.ID = uuid.New().String()
		cached.Cached = true
		return cached, http.StatusOK, nil
	}

	g, err := grid.Parse(s.db, req.Template)
	if err != nil {
		switch {
		case errors.Is(err, grid.ErrMalformedTemplate):
			return nil, http.StatusBadRequest, err
		case errors.Is(err, grid.ErrInfeasibleTemplate):
			return nil, http.StatusUnprocessableEntity, err
		default:
			return nil, http.StatusInternalServerError, err
		}
	}

	discrepancy := req.Discrepancy
	if discrepancy == 0 {
		discrepancy = s.discrepancy
	}
	solved, err := fill.NewSolver(s.db, fill.Config{Discrepancy: discrepancy}).Solve(g)
	if err != nil {
		if errors.Is(err, fill.ErrNoSolution) {
			return nil, http.StatusUnprocessableEntity, err
		}
		log.Printf("solve failed: %v", err)
		return nil, http.StatusInternalServerError, fmt.Errorf("solve failed: %w", err)
	}

	resp := &SolveResponse{
		ID:       uuid.New().String(),
		Solution: output.FormatJSON(solved, dbScorer{s}),
	}
	s.cacheSet(ctx, key, resp)
	return resp, http.StatusOK, nil
}

// cacheKey hashes the request so templates of any size key evenly.
func cacheKey(req *SolveRequest) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d\n%s", req.Discrepancy, req.Template)))
	return "crossfill:solve:" + hex.EncodeToString(h[:])
}

func (s *Server) cacheGet(ctx context.Context, key string) *SolveResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		// Misses and cache errors both just mean a fresh solve.
		return nil
	}
	var resp SolveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *Server) cacheSet(ctx context.Context, key string, resp *SolveResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Printf("Warning: failed to cache solution: %v", err)
	}
}
