package config

import "time"

const (
	// Reel display
	ReelRows          = 5    // Rows visible in the terminal reel
	DefaultItemHeight = 80.0 // Logical pixels per row (drives physics, not terminal cells)
	BlurSpeed         = 12.0 // Rows per second above which names are drawn blurred
	TargetFPS         = 60   // Target frames per second

	// Spin duration bounds for the +/- keys
	MinSpinSeconds  = 1.0
	MaxSpinSeconds  = 30.0
	SpinSecondsStep = 0.5

	// Winner banner spring
	BannerRows      = 3
	BannerFrequency = 6.0
	BannerDamping   = 0.5

	// History
	RecentWinners = 8               // Winners kept in the side panel
	RecordTimeout = 5 * time.Second // Max time to persist one draw

	// GIF export
	GIFWidth      = 480
	GIFFPS        = 25
	GIFLingerSecs = 2

	// Demo mode
	DemoParticipants = 250
	DemoStartTicket  = 1

	// App
	AppName    = "RAFFLE-SPINNER"
	AppVersion = "1.0"
)
