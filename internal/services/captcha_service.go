package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"redditclone/internal/utils"
)

const (
	captchaTTL      = 10 * time.Minute
	captchaCapacity = 4096
)

// CaptchaService hands out small arithmetic challenges for the signup form.
// Answers never leave the server: the client only holds a nonce.
type CaptchaService struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	answers *utils.TTLCache[int]
}

func NewCaptchaService() (*CaptchaService, error) {
	answers, err := utils.NewTTLCache[int](captchaCapacity, captchaTTL)
	if err != nil {
		return nil, fmt.Errorf("create captcha store: %w", err)
	}
	return &CaptchaService{
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		answers: answers,
	}, nil
}

// Issue returns a question such as "3 + 5" and the nonce its answer is filed under.
func (s *CaptchaService) Issue() (string, string, error) {
	question, answer := s.challenge()
	nonce, err := utils.GenerateToken()
	if err != nil {
		return "", "", fmt.Errorf("generate captcha nonce: %w", err)
	}
	s.answers.Set(nonce, answer)
	return question, nonce, nil
}

// Verify checks input against the answer filed under nonce. A nonce is
// consumed by its first check, right or wrong.
func (s *CaptchaService) Verify(nonce, input string) bool {
	if nonce == "" {
		return false
	}
	expected, ok := s.answers.Take(nonce)
	if !ok {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(input))
	return err == nil && n == expected
}

func (s *CaptchaService) challenge() (string, int) {
	s.mu.Lock()
	a := s.rnd.Intn(10)
	b := s.rnd.Intn(10)
	add := s.rnd.Intn(2) == 0
	s.mu.Unlock()

	if add {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	// 保证结果非负
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}
