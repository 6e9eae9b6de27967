// Package naming holds the bracket-tag rewrite shared by the file, bucket and
// table tools: "[prj<id>]<rest>.<ext>" becomes "prj<id>-<rest>.<ext>".
package naming

import "regexp"

var (
	filenamePattern = regexp.MustCompile(`^\[prj(.*?)\](.*?\..+)$`)
	urlPattern      = regexp.MustCompile(`^/images/projects/\[prj(.*?)\](.*?\..+?)(\?.*)?$`)
	featuredPattern = regexp.MustCompile(`/images/\[prj(.*?)\](.*?)\.(\w+)$`)
)

// Rule rewrites a stored URL. It returns the input unchanged when the URL
// does not use the bracket convention.
type Rule func(string) string

// TransformFilename maps "[prj1]095.jpg" to "prj1-095.jpg".
// The bool is false when name does not carry a bracket tag; callers leave
// such files alone.
func TransformFilename(name string) (string, bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return "prj" + m[1] + "-" + m[2], true
}

// TransformURL maps "/images/projects/[prj7]042.png?v=2" to "prj7-042.png?v=2".
// The leading path is dropped and a query string is kept verbatim. Anything
// else, including an already rewritten value, is returned unchanged.
func TransformURL(url string) string {
	m := urlPattern.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	// m[3] is "" when the optional query group did not participate.
	return "prj" + m[1] + "-" + m[2] + m[3]
}

// TransformFeaturedURL rewrites the trailing "/images/[prj<id>]<name>.<ext>"
// of a project's featured image. Only the matched suffix is replaced.
func TransformFeaturedURL(url string) string {
	return featuredPattern.ReplaceAllString(url, "prj${1}-${2}.${3}")
}
