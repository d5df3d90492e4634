package missioncontrol

import "embed"

// EmbeddedAssets contains the browser scripts served under /assets/:
// tracker.js (analytics events) and dashboard.js (Mission Control panel).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
