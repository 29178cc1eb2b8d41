package site

import (
	"errors"
	"net/url"
	"path"
	"strings"

	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/markdown"
	"github.com/lmittmann/w3docs/internal/nav"
)

// ErrBrokenLink is wrapped by errors for relative links that match no
// navigation item.
var ErrBrokenLink = errors.New("broken link")

// checkLinks reports every ordinary link in body that points into the site but
// matches no navigation item. Relative destinations are resolved against the
// directory of source, root-absolute ones against the content root.
func checkLinks(tree *nav.Tree, source string, body []byte) error {
	links, err := markdown.ExtractLinks(body, markdown.Options{SkipSymbolRefs: true})
	if err != nil {
		return err
	}

	var errs []error
	for _, l := range links {
		if l.Kind != markdown.LinkKindInline {
			continue
		}
		key, ok := siteKey(path.Dir(source), l.Destination)
		if !ok {
			continue
		}
		if _, found := tree.Resolve(key); found {
			continue
		}
		errs = append(errs, foundationerrors.NavigationError("link matches no navigation item").
			WithCause(ErrBrokenLink).
			WithContext("page", source).
			WithContext("link", l.Destination).
			Build())
	}
	return errors.Join(errs...)
}

// siteKey maps a link destination to the key path it addresses. It reports
// false for destinations outside the site: URLs with a scheme or host,
// fragment-only links and files other than pages.
func siteKey(dir, dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	p := u.Path
	switch ext := path.Ext(p); ext {
	case nav.PageExt, ".html":
		p = strings.TrimSuffix(p, ext)
	case "":
	default:
		return "", false
	}

	if strings.HasPrefix(p, "/") {
		return strings.Trim(path.Clean(p), "/"), true
	}
	return strings.Trim(path.Join(dir, p), "/"), true
}
