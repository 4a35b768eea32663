package channel

import "fmt"

// Channel identifies a publishing destination. All channel-specific
// behavior lives in its Policy so callers never branch on the raw value.
type Channel string

const (
	Telegram  Channel = "tg"
	Instagram Channel = "inst"
)

// Policy carries the per-channel constants resolved once per request.
type Policy struct {
	// PlanTable is the content-calendar table for this channel.
	PlanTable string
	// CaptionLimit is the generation ceiling for photo captions,
	// CaptionMax the hard Telegram ceiling enforced again on publish.
	CaptionLimit int
	CaptionMax   int
	// TextLimit is the generation ceiling for text-only posts,
	// TextMax the hard Telegram ceiling.
	TextLimit int
	TextMax   int
	// AutoPublish reports whether approved content is forwarded to the
	// destination channel directly. Instagram has no posting API: the
	// operator publishes by hand after approval.
	AutoPublish bool
	// AllowQuiz reports whether quiz content can be delivered as a poll.
	AllowQuiz bool
	// PublishLabel is the terminal action button text.
	PublishLabel string
	// Platform is the display name used in prompts and notices.
	Platform string
}

var policies = map[Channel]Policy{
	Telegram: {
		PlanTable:    "telegram_plan",
		CaptionLimit: 950,
		CaptionMax:   1024,
		TextLimit:    3800,
		TextMax:      4096,
		AutoPublish:  true,
		AllowQuiz:    true,
		PublishLabel: "✅ Publish",
		Platform:     "Telegram",
	},
	Instagram: {
		PlanTable:    "instagram_plan",
		CaptionLimit: 950,
		CaptionMax:   1024,
		TextLimit:    2000,
		TextMax:      4096,
		AutoPublish:  false,
		AllowQuiz:    false,
		PublishLabel: "✅ Approve",
		Platform:     "Instagram",
	},
}

func (c Channel) Policy() Policy {
	return policies[c]
}

func (c Channel) String() string {
	return string(c)
}

// All lists the known channels in scheduling order.
func All() []Channel {
	return []Channel{Telegram, Instagram}
}

func Parse(s string) (Channel, error) {
	switch Channel(s) {
	case Telegram:
		return Telegram, nil
	case Instagram:
		return Instagram, nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}
