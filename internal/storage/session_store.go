package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bountylynx/bountylynx/pkg/models"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

// SessionStore persists session logs as JSON arrays of result records. The
// orchestrator only ever writes; the report and sessions commands read the
// files back.
type SessionStore struct {
	dir    string
	indent bool
	logger *logrus.Logger
}

// SessionInfo summarizes one stored session file.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	Path      string    `json:"path"`
	Results   int       `json:"results"`
	Modified  time.Time `json:"modified"`
}

func NewSessionStore(cfg models.StorageConfig, logger *logrus.Logger) *SessionStore {
	if logger == nil {
		logger = logrus.New()
	}
	dir := cfg.SessionDir
	if dir == "" {
		dir = "./sessions"
	}
	return &SessionStore{dir: dir, indent: cfg.Indent, logger: logger}
}

// Save writes the session log and returns the file path.
func (s *SessionStore) Save(sessionID string, log []*models.ResearchResult) (string, error) {
	if err := utils.EnsureDir(s.dir); err != nil {
		return "", fmt.Errorf("ensure session dir: %w", err)
	}

	path := filepath.Join(s.dir, s.filename(sessionID))

	var (
		data []byte
		err  error
	)
	if s.indent {
		data, err = json.MarshalIndent(log, "", "  ")
	} else {
		data, err = json.Marshal(log)
	}
	if err != nil {
		return "", fmt.Errorf("marshal session log: %w", err)
	}

	if err := utils.SafeWriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session log: %w", err)
	}

	s.logger.Debugf("Session %s saved to %s (%d results)", sessionID, path, len(log))
	return path, nil
}

// Load re-parses a session file into result records.
func (s *SessionStore) Load(path string) ([]*models.ResearchResult, error) {
	var results []*models.ResearchResult
	if err := utils.ReadFileJSON(path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// List enumerates stored session files, newest first.
func (s *SessionStore) List() ([]SessionInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	var infos []SessionInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "bugbounty_research_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		path := filepath.Join(s.dir, name)
		results, err := s.Load(path)
		if err != nil {
			s.logger.Warnf("Skipping unreadable session file %s: %v", name, err)
			continue
		}

		info := SessionInfo{
			SessionID: strings.TrimSuffix(strings.TrimPrefix(name, "bugbounty_research_"), ".json"),
			Path:      path,
			Results:   len(results),
		}
		if fi, err := entry.Info(); err == nil {
			info.Modified = fi.ModTime()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Modified.After(infos[j].Modified) })
	return infos, nil
}

func (s *SessionStore) filename(sessionID string) string {
	return fmt.Sprintf("bugbounty_research_%s.json", sessionID)
}
