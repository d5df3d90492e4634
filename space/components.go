package space

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/missioncontrol/views"
)

// ISSCard renders the ISS tracker widget.
func ISSCard(w ISSWidget) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Rawf(`<div id="widget-iss" class="%s">`, views.PanelClass(!w.Available))
		h.Raw(`<h3 class="text-xs font-semibold uppercase tracking-[0.12em]">ISS Tracker</h3>`)
		h.Raw(`<dl class="mt-2 grid grid-cols-2 gap-1 text-sm"><dt>Lat</dt><dd>`)
		h.Text(w.Latitude)
		h.Raw(`</dd><dt>Lon</dt><dd>`)
		h.Text(w.Longitude)
		h.Raw(`</dd></dl></div>`)
	})
}

// LaunchCard renders the next-launch widget.
func LaunchCard(w LaunchWidget) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Rawf(`<div id="widget-launch" class="%s">`, views.PanelClass(!w.Available))
		h.Raw(`<h3 class="text-xs font-semibold uppercase tracking-[0.12em]">Next Launch</h3>`)
		h.Raw(`<p class="mt-2 font-semibold">`)
		h.Text(w.Name)
		h.Raw(`</p><p class="text-xs">`)
		h.Text(w.Site)
		h.Raw(`</p><p class="mt-1 font-mono">`)
		h.Text(w.Countdown)
		h.Raw(`</p><div class="mt-2 h-1 bg-stone-300"><div class="h-1 bg-ink"`)
		h.Attr("style", views.Width(w.Progress))
		h.Raw(`></div></div></div>`)
	})
}

// APODCard renders the astronomy-picture widget.
func APODCard(w APODWidget) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Rawf(`<div id="widget-apod" class="%s">`, views.PanelClass(!w.Available))
		h.Raw(`<h3 class="text-xs font-semibold uppercase tracking-[0.12em]">Astronomy Picture</h3>`)
		if w.IsImage {
			h.Raw(`<img class="mt-2 w-full" loading="lazy"`)
			h.URLAttr("src", w.ImageURL)
			h.Attr("alt", w.Title)
			h.Raw(`>`)
		} else {
			h.Raw(`<p class="mt-2 text-xs">`)
			h.Text(w.Media)
			h.Raw(`</p>`)
		}
		h.Raw(`<p class="mt-1 text-sm">`)
		h.Text(w.Title)
		h.Raw(`</p></div>`)
	})
}

// WeatherCard renders the space-weather placeholder.
func WeatherCard(w WeatherWidget) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Rawf(`<div id="widget-weather" class="%s">`, views.PanelClass(!w.Available))
		h.Raw(`<h3 class="text-xs font-semibold uppercase tracking-[0.12em]">Space Weather</h3><p class="mt-2 text-sm">`)
		h.Text(w.Status)
		h.Raw(`</p></div>`)
	})
}
