package dashboard

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/missioncontrol/views"
)

// Space widget slots filled by the client from the fragment endpoints.
var spaceWidgets = []string{"iss", "launch", "apod", "weather"}

// Panel renders the whole Mission Control panel body for snap.
func Panel(snap Snapshot) templ.Component {
	return views.Component(func(ctx context.Context, h *views.Writer) {
		h.Raw(`<div id="mission-control-body" class="grid gap-4 md:grid-cols-2">`)
		h.Render(ctx, stats(snap))
		h.Render(ctx, sessionGauge(snap))
		h.Render(ctx, sectionChart(snap.Sections))
		h.Render(ctx, scrollGauge(snap))
		h.Render(ctx, sparkline(snap.Sparkline))
		h.Render(ctx, EggGrid(snap.Eggs, snap.EggSummary))
		h.Render(ctx, ActivityFeed(snap.Feed))
		h.Render(ctx, ClockStrip(snap.Clocks))
		h.Raw(`<div id="space-widgets" class="grid gap-4 md:col-span-2 md:grid-cols-4">`)
		for _, w := range spaceWidgets {
			h.Raw(`<div data-space-widget`)
			h.Attr("data-src", "/mission-control/fragments/space/"+w)
			h.Raw(`></div>`)
		}
		h.Raw(`</div></div>`)
	})
}

func card(title string, body func(h *views.Writer)) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Rawf(`<section class="%s"><h3 class="text-xs font-semibold uppercase tracking-[0.12em]">`, views.PanelClass(false))
		h.Text(title)
		h.Raw(`</h3>`)
		body(h)
		h.Raw(`</section>`)
	})
}

func stats(snap Snapshot) templ.Component {
	return card("Visitors", func(h *views.Writer) {
		h.Raw(`<p class="mt-2 text-3xl font-semibold" id="visitor-count">`)
		h.Text(strconv.Itoa(snap.TotalVisits))
		h.Raw(`</p><p class="text-sm">Today: <span id="today-visitors">`)
		h.Text(strconv.Itoa(snap.TodayVisits))
		h.Raw(`</span></p>`)
	})
}

func sessionGauge(snap Snapshot) templ.Component {
	return card("Average Session", func(h *views.Writer) {
		h.Raw(`<p class="mt-2 font-mono" id="avg-session">`)
		h.Text(snap.AvgSessionText)
		h.Raw(`</p><div class="mt-2 h-1 bg-stone-300"><div id="session-progress" class="h-1 bg-ink"`)
		h.Attr("style", views.Width(snap.SessionProgress))
		h.Raw(`></div></div>`)
	})
}

func sectionChart(bars []SectionBar) templ.Component {
	return card("Section Views", func(h *views.Writer) {
		h.Raw(`<ul class="mt-2 space-y-1 text-sm">`)
		for _, b := range bars {
			h.Raw(`<li class="section-bar grid grid-cols-[6rem_1fr_3rem] items-center gap-2"><span>`)
			h.Text(b.Name)
			h.Raw(`</span><div class="h-1 bg-stone-300"><div class="bar-fill h-1 bg-ink"`)
			h.Attr("data-bar", b.Name)
			h.Attr("style", views.Width(float64(b.Percent)))
			h.Raw(`></div></div><span class="bar-percent text-right">`)
			h.Textf("%d%%", b.Percent)
			h.Raw(`</span></li>`)
		}
		h.Raw(`</ul>`)
	})
}

func scrollGauge(snap Snapshot) templ.Component {
	return card("Scroll Depth", func(h *views.Writer) {
		h.Raw(`<div class="relative mt-2 h-1 bg-stone-300"><div id="scroll-fill" class="h-1 bg-ink"`)
		h.Attr("style", views.Width(float64(snap.ScrollDepth)))
		h.Raw(`></div></div><p class="mt-1 text-sm"><span id="scroll-percent">`)
		h.Textf("%d%%", snap.ScrollDepth)
		h.Raw(`</span> <span id="scroll-message">`)
		h.Text(snap.ScrollMessage)
		h.Raw(`</span></p>`)
	})
}

func sparkline(points []SparkPoint) templ.Component {
	return card("Last 7 Days", func(h *views.Writer) {
		h.Raw(`<div id="visitor-sparkline" class="mt-2 flex h-16 items-end gap-1">`)
		for _, p := range points {
			h.Raw(`<div class="sparkline-bar flex-1 bg-ink"`)
			h.Attr("title", p.Date+": "+strconv.Itoa(p.Visits))
			h.Attr("style", views.Height(p.Height))
			h.Raw(`></div>`)
		}
		h.Raw(`</div>`)
	})
}

// EggGrid renders the easter-egg slots and the unlocked summary.
func EggGrid(slots []EggSlot, summary string) templ.Component {
	return card("Easter Eggs", func(h *views.Writer) {
		h.Raw(`<div id="easter-eggs" class="mt-2 grid grid-cols-6 gap-1">`)
		for _, s := range slots {
			class, mark := "egg-slot", "?"
			if s.Unlocked {
				class, mark = "egg-slot unlocked", "!"
			}
			h.Raw(`<div`)
			h.Attr("class", class)
			h.Attr("title", s.Title)
			h.Raw(`>`)
			h.Text(mark)
			h.Raw(`</div>`)
		}
		h.Raw(`</div><p id="eggs-count" class="mt-1 text-xs">`)
		h.Text(summary)
		h.Raw(`</p>`)
	})
}

// ActivityFeed renders the activity list.
func ActivityFeed(items []FeedItem) templ.Component {
	return card("Activity", func(h *views.Writer) {
		h.Raw(`<div id="activity-list" class="mt-2 space-y-1 text-sm">`)
		if len(items) == 0 {
			h.Raw(`<div class="activity-item"><div class="activity-text">`)
			h.Text(EmptyFeedText)
			h.Raw(`</div></div>`)
		}
		for _, it := range items {
			h.Raw(`<div class="activity-item flex gap-2"><span class="activity-icon font-mono">`)
			h.Text(it.Icon)
			h.Raw(`</span><div><div class="activity-text">`)
			h.Text(it.Text)
			h.Raw(`</div><div class="activity-time text-xs">`)
			h.Text(it.When)
			h.Raw(`</div></div></div>`)
		}
		h.Raw(`</div>`)
	})
}

// ClockStrip renders the world clocks. It is re-sent on every tick.
func ClockStrip(clocks []WorldClock) templ.Component {
	return views.Component(func(_ context.Context, h *views.Writer) {
		h.Raw(`<div id="world-clocks" class="flex justify-between font-mono text-sm md:col-span-2">`)
		for _, c := range clocks {
			h.Raw(`<span><span class="text-xs">`)
			h.Text(c.Zone)
			h.Raw(`</span> `)
			h.Text(c.Time)
			h.Raw(`</span>`)
		}
		h.Raw(`</div>`)
	})
}
