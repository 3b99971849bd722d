package captcha

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mojocn/base64Captcha"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

// Challenge is the public shape handed to clients before login.
type Challenge struct {
	ID          string `json:"challenge_id"`
	ImageBase64 string `json:"image_base64"`
	ExpiresInMS int64  `json:"expires_in_ms"`
}

// Service issues and consumes single-use visual challenges.
type Service interface {
	Generate(ctx context.Context) (*Challenge, error)
	Consume(ctx context.Context, challengeID, answer string) error
	Enabled() bool
}

type challengeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

type challengeKeyer interface {
	ChallengeKey(challengeID string) string
}

type service struct {
	driver  *base64Captcha.DriverString
	store   challengeStore
	keyer   challengeKeyer
	cfg     config.ChallengeConfig
	enabled bool
}

// ServiceParams bundles the dependencies required to build a challenge service.
type ServiceParams struct {
	Store  challengeStore
	Keyer  challengeKeyer
	Config config.ChallengeConfig
}

// NewService constructs a challenge service backed by Redis.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("challenge store is required")
	}
	if params.Keyer == nil {
		return nil, fmt.Errorf("challenge keyer is required")
	}
	cfg := params.Config
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("challenge length must be positive")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("challenge ttl must be positive")
	}

	driver := base64Captcha.NewDriverString(
		cfg.Height,
		cfg.Width,
		0,
		base64Captcha.OptionShowHollowLine,
		cfg.Length,
		base64Captcha.TxtNumbers+base64Captcha.TxtAlphabet,
		nil,
		nil,
		nil,
	).ConvertFonts()

	return &service{
		driver:  driver,
		store:   params.Store,
		keyer:   params.Keyer,
		cfg:     cfg,
		enabled: cfg.Enabled,
	}, nil
}

func (s *service) Enabled() bool {
	return s.enabled
}

// Generate renders a fresh challenge image and stores the expected answer.
func (s *service) Generate(ctx context.Context) (*Challenge, error) {
	_, content, answer := s.driver.GenerateIdQuestionAnswer()
	item, err := s.driver.DrawCaptcha(content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "draw challenge")
	}

	challengeID := uuid.NewString()
	key := s.keyer.ChallengeKey(challengeID)
	if err := s.store.Set(ctx, key, answer, s.cfg.TTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store challenge answer")
	}

	return &Challenge{
		ID:          challengeID,
		ImageBase64: item.EncodeB64string(),
		ExpiresInMS: s.cfg.TTL.Milliseconds(),
	}, nil
}

// Consume validates the answer for the given challenge. The stored answer is
// removed before comparison, so a wrong guess burns the challenge too.
func (s *service) Consume(ctx context.Context, challengeID, answer string) error {
	id := strings.TrimSpace(challengeID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "challenge id is required")
	}

	expected, err := s.store.GetDel(ctx, s.keyer.ChallengeKey(id))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "challenge expired or unknown")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load challenge answer")
	}

	// exact match against the challenge text; only surrounding whitespace
	// is forgiven, the character source never contains any
	if strings.TrimSpace(answer) != expected {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "challenge answer incorrect")
	}
	return nil
}
