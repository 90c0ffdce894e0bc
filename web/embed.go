// Package web holds the dashboard templates and static assets.
package web

import "embed"

// TemplatesFS embeds the page and report partial templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
