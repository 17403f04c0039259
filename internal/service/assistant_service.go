package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/member-center/internal/config"
	"github.com/spec-kit/member-center/internal/domain"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// AssistantService forwards chat messages to the externally hosted agent
// service. All agent and prompt logic lives there; this service only supplies
// the member's context through the same read contracts every caller uses,
// and keeps a short conversation history in Redis.
type AssistantService struct {
	cfg      config.AssistantConfig
	coverage *CoverageService
	history  *redis.Client
	client   *http.Client
	logger   *zap.Logger
}

// NewAssistantService constructs the service. historyClient may be nil, in
// which case conversations are stateless.
func NewAssistantService(cfg config.AssistantConfig, coverage *CoverageService, historyClient *redis.Client, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		cfg:      cfg,
		coverage: coverage,
		history:  historyClient,
		client:   &http.Client{Timeout: cfg.Timeout()},
		logger:   logger,
	}
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type agentRequest struct {
	Model   string     `json:"model"`
	Message string     `json:"message"`
	Context string     `json:"context,omitempty"`
	History []chatTurn `json:"history,omitempty"`
}

type agentResponse struct {
	Response string `json:"response"`
}

// Chat sends the member's message to the agent endpoint and returns the reply.
func (s *AssistantService) Chat(ctx context.Context, member *domain.Member, message string) (string, error) {
	if s.cfg.AgentURL == "" {
		return "", apperrors.NewDomainError("ASSISTANT_UNAVAILABLE", "assistant is not configured",
			http.StatusServiceUnavailable, nil)
	}

	reqBody := agentRequest{
		Model:   s.cfg.ModelID,
		Message: message,
		Context: s.memberContext(ctx, member),
		History: s.loadHistory(ctx, member.ID),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.AgentURL, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperrors.NewTransient(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", apperrors.NewTransient(fmt.Errorf("agent returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		// 4xx from the agent is a fault in what we sent; retrying the same
		// request cannot succeed.
		return "", apperrors.NewDomainError("ASSISTANT_ERROR", "assistant request failed",
			http.StatusBadGateway, map[string]any{"agent_status": resp.StatusCode})
	}

	var agentResp agentResponse
	if err := json.NewDecoder(resp.Body).Decode(&agentResp); err != nil {
		return "", apperrors.NewTransient(err)
	}

	s.appendHistory(ctx, member.ID,
		chatTurn{Role: "user", Content: message},
		chatTurn{Role: "assistant", Content: agentResp.Response})

	return agentResp.Response, nil
}

// memberContext builds the grounding context for the agent. Coverage data
// goes through CoverageService, so the assistant sees exactly what the
// dashboard shows and nothing the eligibility rules would hide.
func (s *AssistantService) memberContext(ctx context.Context, member *domain.Member) string {
	summary, err := s.coverage.Summarize(ctx, member.ID)
	if err != nil {
		s.logger.Warn("assistant context: coverage summary failed", zap.Error(err))
		return fmt.Sprintf("Member %s %s (%s), membership status %s.",
			member.FirstName, member.LastName, member.MemberNumber, member.MembershipStatus)
	}
	return fmt.Sprintf(
		"Member %s %s (%s), membership status %s, branch %s, active duty: %t. Total coverage: %s. Total monthly premium: %s.",
		member.FirstName, member.LastName, member.MemberNumber, member.MembershipStatus,
		member.MilitaryBranch, member.IsActiveDuty,
		summary.TotalCoverage.StringFixed(2), summary.TotalMonthlyPremium.StringFixed(2))
}

func historyKey(memberID int64) string {
	return fmt.Sprintf("assistant:history:%d", memberID)
}

func (s *AssistantService) loadHistory(ctx context.Context, memberID int64) []chatTurn {
	if s.history == nil {
		return nil
	}
	raw, err := s.history.LRange(ctx, historyKey(memberID), 0, int64(s.cfg.HistoryLimit-1)).Result()
	if err != nil {
		return nil
	}
	turns := make([]chatTurn, 0, len(raw))
	// Stored newest-first; replay oldest-first.
	for i := len(raw) - 1; i >= 0; i-- {
		var turn chatTurn
		if err := json.Unmarshal([]byte(raw[i]), &turn); err == nil {
			turns = append(turns, turn)
		}
	}
	return turns
}

func (s *AssistantService) appendHistory(ctx context.Context, memberID int64, turns ...chatTurn) {
	if s.history == nil {
		return
	}
	key := historyKey(memberID)
	for _, turn := range turns {
		encoded, err := json.Marshal(turn)
		if err != nil {
			continue
		}
		if err := s.history.LPush(ctx, key, encoded).Err(); err != nil {
			s.logger.Warn("assistant history write failed", zap.Error(err))
			return
		}
	}
	s.history.LTrim(ctx, key, 0, int64(s.cfg.HistoryLimit-1))
	s.history.Expire(ctx, key, s.cfg.HistoryTTL())
}
