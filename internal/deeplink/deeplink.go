// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package deeplink builds the links that hand a library over to a drawing
// application, and the asset URLs served next to the catalog.
package deeplink

import (
	"net/url"
	"strings"

	"github.com/janderssonse/libgallery/internal/catalog"
)

// Defaults for the outbound link.
const (
	DefaultReferrer = "https://excalidraw.com"
	DefaultTarget   = "_blank"
	DefaultAppName  = "Excalidraw"

	// AddLibraryParam carries the library download URL.
	AddLibraryParam = "addLibrary"
	// TokenParam carries the passthrough token.
	TokenParam = "token"
)

// knownApps maps application names to the host they are served from,
// checked in order against the referrer.
var knownApps = []struct { //nolint:gochecknoglobals
	name   string
	origin string
}{
	{name: "Excalidraw+", origin: "https://app.excalidraw.com"},
	{name: "Excalidraw", origin: "https://excalidraw.com"},
	{name: "Excalideck", origin: "https://app.excalideck.com"},
}

// Options describes where and how the link is sent.
type Options struct {
	// Site is the base URL the catalog and library files are served from.
	Site string
	// Referrer is the application that receives the library.
	Referrer string
	// Target is the browser window name the link opens in.
	Target string
	// UseHash passes the parameters in the fragment instead of the query.
	UseHash bool
	// Token is passed through untouched to the receiving application.
	Token string
}

// Normalized fills defaults and decodes the target window name.
func (o Options) Normalized() Options {
	if o.Referrer == "" {
		o.Referrer = DefaultReferrer
	}

	if o.Target == "" {
		o.Target = DefaultTarget
	}

	if target, err := url.QueryUnescape(o.Target); err == nil {
		o.Target = target
	}

	o.Site = strings.TrimRight(o.Site, "/")

	return o
}

// AppName returns the display name of the application behind referrer.
func AppName(referrer string) string {
	for _, app := range knownApps {
		if strings.Contains(referrer, app.origin) {
			return app.name
		}
	}

	return DefaultAppName
}

// LibraryURL is the direct download URL of a library file.
func LibraryURL(site, source string) string {
	return strings.TrimRight(site, "/") + "/libraries/" + source
}

// PreviewURL is the preview image URL, cache-busted by the update date.
func PreviewURL(site string, lib catalog.Library) string {
	return strings.TrimRight(site, "/") + "/libraries/" + lib.Preview + "?v=" + url.QueryEscape(lib.Updated)
}

// AddLibraryURL builds the link asking the referrer to import lib.
func AddLibraryURL(opts Options, lib catalog.Library) string {
	opts = opts.Normalized()

	separator := "?"
	if opts.UseHash {
		separator = "#"
	}

	var b strings.Builder

	b.WriteString(opts.Referrer)
	b.WriteString(separator)
	b.WriteString(AddLibraryParam)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(LibraryURL(opts.Site, lib.Source)))

	if opts.Token != "" {
		b.WriteByte('&')
		b.WriteString(TokenParam)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(opts.Token))
	}

	return b.String()
}
