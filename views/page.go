package views

import (
	"context"

	"github.com/a-h/templ"
)

// Page renders the portfolio page shell: the tracked sections, the hidden
// Mission Control panel and the scripts that drive both.
func Page(cfg SiteConfig, meta PageMeta, sections []Section, flash string) templ.Component {
	return Component(func(ctx context.Context, h *Writer) {
		h.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(meta.Title)
		h.Raw(`</title>`)
		if meta.Description != "" {
			h.Raw(`<meta name="description"`)
			h.Attr("content", meta.Description)
			h.Raw(`>`)
		}
		h.Raw(`<meta name="csrf-token"`)
		h.Attr("content", meta.CSRFToken)
		h.Raw(`><link rel="stylesheet" href="/public/styles.css"></head>`)

		h.Raw(`<body class="bg-stone-50 text-ink dark:bg-neutral-900 dark:text-white">`)
		if flash != "" {
			h.Raw(`<div role="status" class="border-b border-ink px-4 py-2 text-sm">`)
			h.Text(flash)
			h.Raw(`</div>`)
		}
		h.Raw(`<header class="flex items-center justify-between px-6 py-4"><span class="font-semibold">`)
		h.Text(cfg.Name)
		h.Raw(`</span><button type="button" id="mission-control-toggle" class="text-xs uppercase tracking-[0.12em]">Mission Control</button></header>`)

		h.Raw(`<main>`)
		for _, s := range sections {
			h.Raw(`<section class="min-h-screen px-6 py-16"`)
			h.Attr("id", s.ID)
			h.Attr("data-section", s.ID)
			h.Raw(`><h2 class="text-2xl font-semibold">`)
			h.Text(s.Title)
			h.Raw(`</h2></section>`)
		}
		h.Raw(`</main>`)

		h.Render(ctx, controlPanel(meta.CSRFToken))

		h.Raw(`<script src="/assets/tracker.js" defer></script>`)
		h.Raw(`<script src="/assets/dashboard.js" defer></script>`)
		h.Raw(`</body></html>`)
	})
}

func controlPanel(csrfToken string) templ.Component {
	return Component(func(_ context.Context, h *Writer) {
		h.Raw(`<aside id="mission-control" hidden class="fixed inset-0 overflow-y-auto bg-neutral-950/95 p-6 text-white">`)
		h.Raw(`<div class="flex items-center justify-between"><h2 class="text-lg font-semibold uppercase tracking-[0.12em]">Mission Control</h2>`)
		h.Raw(`<div class="flex gap-3 text-xs"><a href="/mission-control/export" download>Export</a>`)
		h.Raw(`<form method="post" action="/mission-control/reset" id="mission-control-reset" class="flex gap-1">`)
		h.Raw(`<input type="hidden" name="_csrf"`)
		h.Attr("value", csrfToken)
		h.Raw(`><input name="confirm" placeholder="Type RESET" autocomplete="off" class="w-24 bg-transparent border px-1">`)
		h.Raw(`<button type="submit">Reset</button></form>`)
		h.Raw(`<button type="button" id="mission-control-close">Close</button></div></div>`)
		h.Raw(`<div id="mission-control-content" class="mt-4"></div></aside>`)
	})
}
