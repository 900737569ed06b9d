// Package message implements the inbound message service port: the
// coordinator that takes a generation command through seniority inference,
// ICP matching, strategy selection, the quality-gated chain, and the cache.
package message

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/domain"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/in"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/generation"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/service/inference"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/apperr"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/metrics"
)

const defaultCacheTTL = time.Hour

// Config tunes the coordinator's caching behavior.
type Config struct {
	// CacheTTL bounds how long generated messages are reused. Zero means the
	// one hour default.
	CacheTTL time.Duration

	// CacheBelowThreshold also caches best-effort messages that missed the
	// quality threshold. Bootstrap sources it from configuration, where it
	// defaults to on.
	CacheBelowThreshold bool
}

// Service coordinates the full pipeline behind the in.MessageService port.
type Service struct {
	classifier *inference.SeniorityClassifier
	matcher    *inference.ICPMatcher
	selector   *inference.StrategySelector
	gate       *generation.QualityGate
	cache      out.Cache
	latency    *metrics.LatencyRegistry

	cacheTTL            time.Duration
	cacheBelowThreshold bool
}

var _ in.MessageService = (*Service)(nil)

func NewService(
	classifier *inference.SeniorityClassifier,
	matcher *inference.ICPMatcher,
	selector *inference.StrategySelector,
	gate *generation.QualityGate,
	cache out.Cache,
	latency *metrics.LatencyRegistry,
	cfg Config,
) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Service{
		classifier:          classifier,
		matcher:             matcher,
		selector:            selector,
		gate:                gate,
		cache:               cache,
		latency:             latency,
		cacheTTL:            cfg.CacheTTL,
		cacheBelowThreshold: cfg.CacheBelowThreshold,
	}
}

// GenerateMessage implements in.MessageService with a cache-aside flow:
// a hit returns the stored message unchanged apart from the cache flag, a
// miss runs the pipeline and writes the result back.
func (s *Service) GenerateMessage(ctx context.Context, cmd *in.GenerateMessageCommand) (*domain.Message, error) {
	started := time.Now()

	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"lead":    cmd.Lead.FirstName,
		"company": cmd.Lead.CompanyName,
		"channel": string(cmd.Channel),
		"step":    string(cmd.Step),
	}).Info("[MessageService] Starting message generation")

	key := cacheKey(cmd)
	if msg := s.cachedMessage(ctx, key); msg != nil {
		msg.Metadata.CacheHit = true
		s.record("cache_hit", time.Since(started))
		logger.WithFields(map[string]any{
			"cache_key":  key,
			"message_id": msg.ID,
		}).Info("[MessageService] Cache hit")
		return msg, nil
	}

	seniority := s.classifier.Infer(cmd.Lead.JobTitle)
	icp := s.matcher.Match(cmd.Lead, cmd.Playbook)
	strategy, reason := s.selector.Select(cmd.Lead, cmd.Sender, icp, seniority, cmd.Channel, cmd.Step)

	icpName := ""
	if icp != nil {
		icpName = icp.Name
	}
	logger.WithFields(map[string]any{
		"seniority": string(seniority),
		"icp":       icpName,
		"strategy":  string(strategy),
	}).Debug("[MessageService] Pipeline context resolved")

	result, err := s.gate.Generate(ctx, generation.ChainInput{
		Lead:      cmd.Lead,
		Sender:    cmd.Sender,
		Playbook:  cmd.Playbook,
		Seniority: seniority,
		ICP:       icp,
		Strategy:  strategy,
		Channel:   cmd.Channel,
		Step:      cmd.Step,
	})
	if err != nil {
		return nil, err
	}

	msg := result.Message
	msg.Metadata.StrategyReason = reason
	msg.Metadata.ICPMatch = icpName
	msg.Metadata.DurationMs = time.Since(started).Milliseconds()

	s.storeMessage(ctx, key, msg)
	s.record("generate_message", time.Since(started))

	logger.WithFields(map[string]any{
		"message_id":  msg.ID,
		"strategy":    string(strategy),
		"score":       msg.Score,
		"attempts":    result.Attempts,
		"duration_ms": msg.Metadata.DurationMs,
	}).Info("[MessageService] Message generated")

	return msg, nil
}

// Threshold exposes the gate's passing score for response assembly.
func (s *Service) Threshold() float64 {
	return s.gate.Threshold()
}

func validateCommand(cmd *in.GenerateMessageCommand) error {
	if cmd == nil {
		return apperr.BadRequest("missing generation command")
	}
	if cmd.Lead == nil {
		return apperr.MissingField("lead")
	}
	if cmd.Sender == nil {
		return apperr.MissingField("sender")
	}
	if cmd.Playbook == nil {
		return apperr.MissingField("playbook")
	}
	if _, err := domain.ParseChannel(string(cmd.Channel)); err != nil {
		return apperr.InvalidInput("channel", err.Error())
	}
	if _, err := domain.ParseSequenceStep(string(cmd.Step)); err != nil {
		return apperr.InvalidInput("sequence_step", err.Error())
	}
	return nil
}

// cacheKey derives the deterministic cache key for a command: msg: plus the
// first 12 hex chars of a SHA-256 over the lowercased identity tuple. The
// playbook fingerprint keeps equal leads under different playbooks apart.
func cacheKey(cmd *in.GenerateMessageCommand) string {
	parts := []string{
		cmd.Lead.FirstName,
		cmd.Lead.JobTitle,
		cmd.Lead.CompanyName,
		playbookFingerprint(cmd.Playbook),
		string(cmd.Channel),
		string(cmd.Step),
	}

	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(parts, "|"))))
	return "msg:" + hex.EncodeToString(sum[:])[:12]
}

func playbookFingerprint(pb *domain.Playbook) string {
	parts := []string{pb.CommunicationStyle}
	for _, product := range pb.Products {
		parts = append(parts, product.Name)
	}
	for _, icp := range pb.ICPProfiles {
		parts = append(parts, icp.Name)
	}
	return strings.Join(parts, ",")
}

// cachedMessage returns the stored message for key, or nil. Read and decode
// failures degrade to a miss.
func (s *Service) cachedMessage(ctx context.Context, key string) *domain.Message {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, out.ErrCacheMiss) {
			logger.WithError(err).Warn("[MessageService] Cache read failed")
		}
		return nil
	}

	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WithError(err).WithField("cache_key", key).Warn("[MessageService] Dropping undecodable cache entry")
		return nil
	}
	return &msg
}

// storeMessage writes the message back to the cache. Write failures are
// logged and swallowed; a cancelled context skips the write entirely.
func (s *Service) storeMessage(ctx context.Context, key string, msg *domain.Message) {
	if ctx.Err() != nil {
		return
	}
	if !s.cacheBelowThreshold && !msg.PassesQualityGate(s.gate.Threshold()) {
		logger.WithField("cache_key", key).Debug("[MessageService] Skipping cache write for below-threshold message")
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.WithError(err).Warn("[MessageService] Cache encode failed")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		logger.WithError(err).Warn("[MessageService] Cache write failed")
	}
}

func (s *Service) record(operation string, d time.Duration) {
	if s.latency != nil {
		s.latency.Record(operation, d)
	}
}
