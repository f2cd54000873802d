package devserver

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rurushi/panel/pkg/api"
)

var (
	// S01E01, s1e2
	sxxexx = regexp.MustCompile(`(?i)S\d{1,2}E(\d{1,3})`)
	// Ep 1, Episode 01, E01
	epNumber = regexp.MustCompile(`(?i)(?:Ep(?:isode)?[.\s]*|(?:^|[.\s_-])E)(\d{1,3})(?:[.\s_\-\[]|$)`)
	// [Group] Show - 01 [1080p], Show - 01v2
	animeEpisode = regexp.MustCompile(`(?:\]|^|\s)-?\s*(\d{1,3})(?:v\d)?(?:\s*[\[\(]|$)`)
)

func isVideoExt(ext string) bool {
	switch ext {
	case ".mkv", ".mp4", ".avi", ".mov", ".webm", ".m4v":
		return true
	default:
		return false
	}
}

// episodeNumber extracts the episode number from a file's base name.
func episodeNumber(base string) *int {
	for _, re := range []*regexp.Regexp{sxxexx, epNumber, animeEpisode} {
		if m := re.FindStringSubmatch(base); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

// scanFolder walks root and groups video files by their parent directory.
// Files directly under root are grouped under the root's own name.
func scanFolder(root string) (map[string][]api.Episode, error) {
	root = filepath.Clean(root)
	shows := make(map[string][]api.Episode)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isVideoExt(ext) {
			return nil
		}

		show := filepath.Base(filepath.Dir(path))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		shows[show] = append(shows[show], api.Episode{
			Name:          base,
			FilePath:      path,
			ShowName:      show,
			EpisodeNumber: episodeNumber(base),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	id := 1
	for _, show := range sortedKeys(shows) {
		eps := shows[show]
		sortEpisodes(eps)
		for i := range eps {
			eps[i].ID = id
			id++
		}
	}
	return shows, nil
}

// sortEpisodes orders by episode number, unnumbered last, then by name.
func sortEpisodes(eps []api.Episode) {
	sort.SliceStable(eps, func(i, j int) bool {
		a, b := eps[i].EpisodeNumber, eps[j].EpisodeNumber
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return eps[i].Name < eps[j].Name
	})
}

func sortedKeys(shows map[string][]api.Episode) []string {
	keys := make([]string, 0, len(shows))
	for k := range shows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
