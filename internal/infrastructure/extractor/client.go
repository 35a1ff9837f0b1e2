package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxResumeBytes   = 10 << 20
	maxErrorBodySize = 4096
	defaultTimeout   = 30 * time.Second
)

var (
	ErrNotConfigured  = errors.New("skill extractor not configured")
	ErrResumeTooLarge = errors.New("resume exceeds size limit")
)

// SkillExtractor returns the skills found in the résumé stored at resumeURL.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, resumeURL string) ([]string, error)
}

type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

type extractResponse struct {
	ExtractedSkills []string `json:"extracted_skills"`
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("extractor"),
	}
}

func (c *Client) ExtractSkills(ctx context.Context, resumeURL string) ([]string, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	data, filename, err := c.download(ctx, resumeURL)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("resume", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/extract-skills"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "extract skills"); err != nil {
		c.log.Warn("extraction failed", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, err
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode extractor response: %w", err)
	}

	skills := make([]string, 0, len(out.ExtractedSkills))
	for _, s := range out.ExtractedSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	c.log.Debug("skills extracted",
		zap.Int("count", len(skills)),
		zap.Int("resume_bytes", len(data)),
		zap.Duration("took", time.Since(start)),
	)
	return skills, nil
}

func (c *Client) download(ctx context.Context, resumeURL string) ([]byte, string, error) {
	u, err := url.Parse(strings.TrimSpace(resumeURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid resume url %q", resumeURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download resume: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "download resume"); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResumeBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("download resume: %w", err)
	}
	if len(data) > maxResumeBytes {
		return nil, "", ErrResumeTooLarge
	}

	filename := path.Base(u.Path)
	if filename == "." || filename == "/" || filename == "" {
		filename = "resume"
	}
	return data, filename, nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	return fmt.Errorf("%s failed: status=%d body=%s", op, resp.StatusCode, strings.TrimSpace(string(rb)))
}

var _ SkillExtractor = (*Client)(nil)
