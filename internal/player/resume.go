package player

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcdole/youhub/internal/domain"
)

const (
	// ResumeKeyPrefix namespaces resume records in the KV store
	ResumeKeyPrefix = "cv:resume:"

	// ResumeThreshold is the position (seconds) a video must pass before
	// it is worth resuming
	ResumeThreshold = 5.0
)

// ResumeRecord is the last known position of a video
type ResumeRecord struct {
	VideoID             string  `json:"video_id"`
	LastPositionSeconds float64 `json:"last_position_seconds"`
}

// ResumeKey returns the storage key for a video id
func ResumeKey(videoID string) string {
	return ResumeKeyPrefix + videoID
}

// ResumeStore remembers the last playback position per video. A nil
// *ResumeStore is valid and stores nothing.
type ResumeStore struct {
	kv     domain.KV
	logger *slog.Logger
}

// NewResumeStore creates a resume store on top of kv
func NewResumeStore(kv domain.KV, logger *slog.Logger) *ResumeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeStore{kv: kv, logger: logger}
}

// Load returns the stored position when it is finite and past the threshold
func (s *ResumeStore) Load(ctx context.Context, videoID string) (float64, bool) {
	if s == nil || videoID == "" {
		return 0, false
	}
	raw, ok, err := s.kv.Get(ctx, ResumeKey(videoID))
	if err != nil {
		s.logger.Debug("resume read failed", "video", videoID, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	pos, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !worthResuming(pos) {
		return 0, false
	}
	return pos, true
}

// Save records pos for videoID. Positions at or below the threshold are
// not written, so a record only exists for a video watched past it.
func (s *ResumeStore) Save(ctx context.Context, videoID string, pos float64) error {
	if s == nil || videoID == "" || !worthResuming(pos) {
		return nil
	}
	return s.kv.Set(ctx, ResumeKey(videoID), strconv.FormatFloat(pos, 'f', -1, 64))
}

// Clear removes the record for videoID
func (s *ResumeStore) Clear(ctx context.Context, videoID string) error {
	if s == nil || videoID == "" {
		return nil
	}
	return s.kv.Delete(ctx, ResumeKey(videoID))
}

// List returns all records ordered by video id
func (s *ResumeStore) List(ctx context.Context) ([]ResumeRecord, error) {
	if s == nil {
		return nil, nil
	}
	entries, err := s.kv.List(ctx, ResumeKeyPrefix)
	if err != nil {
		return nil, err
	}
	records := make([]ResumeRecord, 0, len(entries))
	for k, v := range entries {
		pos, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		records = append(records, ResumeRecord{
			VideoID:             strings.TrimPrefix(k, ResumeKeyPrefix),
			LastPositionSeconds: pos,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].VideoID < records[j].VideoID })
	return records, nil
}

// ClearAll removes every record and returns how many were removed
func (s *ResumeStore) ClearAll(ctx context.Context) (int, error) {
	if s == nil {
		return 0, nil
	}
	entries, err := s.kv.List(ctx, ResumeKeyPrefix)
	if err != nil {
		return 0, err
	}
	for k := range entries {
		if err := s.kv.Delete(ctx, k); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

func worthResuming(pos float64) bool {
	return !math.IsNaN(pos) && !math.IsInf(pos, 0) && pos > ResumeThreshold
}
