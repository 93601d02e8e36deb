package cordova

import (
	"regexp"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/pkg/fileutil"
)

// DefaultContentSrc is the start page restored after a live-reload run.
const DefaultContentSrc = "index.html"

var (
	contentSrcRe = regexp.MustCompile(`(<content\b[^>]*?\bsrc\s*=\s*)("[^"]*"|'[^']*')`)
	contentTagRe = regexp.MustCompile(`<content\b[^>]*?/?>`)
	widgetEndRe  = regexp.MustCompile(`</widget>`)
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// findOutsideComments returns the submatch indices of the first match of re
// that does not start inside an XML comment.
func findOutsideComments(re *regexp.Regexp, data []byte) []int {
	comments := commentRe.FindAllIndex(data, -1)
	for _, loc := range re.FindAllSubmatchIndex(data, -1) {
		commented := false
		for _, c := range comments {
			if loc[0] >= c[0] && loc[0] < c[1] {
				commented = true
				break
			}
		}
		if !commented {
			return loc
		}
	}
	return nil
}

// SetContentSrc points the <content src> of the config.xml at path to src.
// Commented-out elements are skipped and the rest of the file is left
// byte-for-byte intact.
func SetContentSrc(path, src string) error {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return errors.E(errors.KindConfigRead, "", "Unable to read config.xml", err)
	}

	updated, err := replaceContentSrc(data, src)
	if err != nil {
		return errors.E(errors.KindConfigParse, "", "Unable to update config.xml", err)
	}

	if err := fileutil.AtomicWriteFile(path, updated, fileutil.DefaultFilePerm); err != nil {
		return errors.E(errors.KindConfigWrite, "", "Unable to write config.xml", err)
	}
	return nil
}

// ContentSrc returns the current <content src> of data, or "" when absent.
func ContentSrc(data []byte) string {
	loc := findOutsideComments(contentSrcRe, data)
	if loc == nil {
		return ""
	}
	return string(data[loc[4]+1 : loc[5]-1])
}

func replaceContentSrc(data []byte, src string) ([]byte, error) {
	attr := []byte(`"` + xmlAttrEscape(src) + `"`)

	if loc := findOutsideComments(contentSrcRe, data); loc != nil {
		out := make([]byte, 0, len(data)+len(attr))
		out = append(out, data[:loc[4]]...)
		out = append(out, attr...)
		return append(out, data[loc[5]:]...), nil
	}

	elem := []byte(`<content src=` + string(attr) + ` />`)
	if loc := findOutsideComments(contentTagRe, data); loc != nil {
		out := make([]byte, 0, len(data)+len(elem))
		out = append(out, data[:loc[0]]...)
		out = append(out, elem...)
		return append(out, data[loc[1]:]...), nil
	}

	if loc := findOutsideComments(widgetEndRe, data); loc != nil {
		out := make([]byte, 0, len(data)+len(elem)+5)
		out = append(out, data[:loc[0]]...)
		out = append(out, "    "...)
		out = append(out, elem...)
		out = append(out, '\n')
		return append(out, data[loc[0]:]...), nil
	}

	return nil, errors.New("no <widget> element found")
}

func xmlAttrEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			out = append(out, "&amp;"...)
		case '"':
			out = append(out, "&quot;"...)
		case '<':
			out = append(out, "&lt;"...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
