package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// builtinSynonyms maps informal asset terms to G2B catalogue names.
var builtinSynonyms = map[string]string{
	// desktop
	"pc":      "데스크톱컴퓨터",
	"desktop": "데스크톱컴퓨터",
	"컴퓨터":     "데스크톱컴퓨터",
	"데스크탑":    "데스크톱컴퓨터",
	"데스크톱":    "데스크톱컴퓨터",
	"본체":      "데스크톱컴퓨터",
	"imac":    "데스크톱컴퓨터",
	"아이맥":     "데스크톱컴퓨터",
	// notebook
	"laptop":   "노트북컴퓨터",
	"notebook": "노트북컴퓨터",
	"macbook":  "노트북컴퓨터",
	"노트북":      "노트북컴퓨터",
	"랩탑":       "노트북컴퓨터",
	"맥북":       "노트북컴퓨터",
	"맥북 프로":    "노트북컴퓨터",
	"그램":       "노트북컴퓨터",
	// tablet
	"tablet": "태블릿컴퓨터",
	"ipad":   "태블릿컴퓨터",
	"태블릿":    "태블릿컴퓨터",
	"아이패드":   "태블릿컴퓨터",
	"갤럭시탭":   "태블릿컴퓨터",
	// display
	"monitor": "액정모니터",
	"모니터":     "액정모니터",
	"lcd":     "액정모니터",
	// print
	"printer": "레이저프린터",
	"프린터":     "레이저프린터",
	"프린트기":    "레이저프린터",
	"복합기":     "디지털복합기",
	"복사기":     "디지털복합기",
	"copier":  "디지털복합기",
	"스캐너":     "스캐너",
	// presentation
	"projector": "영상투사기",
	"프로젝터":      "영상투사기",
	"빔":         "영상투사기",
	"빔프로젝터":     "영상투사기",
	// facilities
	"에어컨":    "냉난방기",
	"냉방기":    "냉난방기",
	"온풍기":    "냉난방기",
	"aircon": "냉난방기",
	"의자":     "사무용의자",
	"chair":  "사무용의자",
	"책상":     "사무용책상",
	"desk":   "사무용책상",
	"캐비닛":    "캐비닛",
	"서랍장":    "서랍장",
	"냉장고":    "냉장고",
	"정수기":    "정수기",
	"서버":     "서버컴퓨터",
	"server": "서버컴퓨터",
}

// SynonymResolver normalizes colloquial asset terms to canonical search terms.
// Lookup is case-insensitive exact match on the trimmed input; the table is read-only.
type SynonymResolver struct {
	table map[string]string
}

// NewSynonymResolver creates a resolver from the built-in table plus extra entries.
// Extra entries override built-in ones.
func NewSynonymResolver(extra map[string]string) *SynonymResolver {
	table := make(map[string]string, len(builtinSynonyms)+len(extra))
	for k, v := range builtinSynonyms {
		table[lookupKey(k)] = v
	}
	for k, v := range extra {
		key := lookupKey(k)
		if key == "" || strings.TrimSpace(v) == "" {
			continue
		}
		table[key] = strings.TrimSpace(v)
	}
	return &SynonymResolver{table: table}
}

// LoadSynonymResolver reads a JSON object of term -> canonical name and merges it
// over the built-in table. An empty path yields the built-in table only; a nil
// fs reads from the OS filesystem.
func LoadSynonymResolver(fs afero.Fs, path string) (*SynonymResolver, error) {
	if path == "" {
		return NewSynonymResolver(nil), nil
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read synonym file: %w", err)
	}

	var extra map[string]string
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("%w: synonym file %s: %v", domain.ErrInvalidConfig, path, err)
	}
	return NewSynonymResolver(extra), nil
}

// Normalize returns the canonical term for term, if known.
func (s *SynonymResolver) Normalize(term string) (string, bool) {
	key := lookupKey(term)
	if key == "" {
		return "", false
	}
	canonical, ok := s.table[key]
	return canonical, ok
}

// Known reports whether term is in the table.
func (s *SynonymResolver) Known(term string) bool {
	_, ok := s.Normalize(term)
	return ok
}

// Len returns the number of entries.
func (s *SynonymResolver) Len() int {
	return len(s.table)
}

func lookupKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
