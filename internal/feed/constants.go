package feed

const (
	// Recency filtering
	DefaultRecencyWindowHours = 4
	MaxSnippetLength          = 200
	TruncationMarker          = "..."

	// Search configuration
	DefaultTopic       = "Roblox"
	DefaultSearchDepth = "advanced"
	SearchMaxResults   = 10

	// Timeouts
	DefaultHTTPTimeoutSeconds   = 30
	DefaultSearchTimeoutSeconds = 60

	// Daemon mode
	DefaultSchedule = "0 */4 * * *"
)

// Placeholders substituted when a provider omits a field
const (
	NoLink        = "#"
	UntitledTitle = "Untitled"
	UnknownSource = "Unknown source"
	NoDescription = "No description available"
	RecentlyLabel = "Recently"
)

// FreshnessKeywords must appear in a web result's content for it to count as fresh
var FreshnessKeywords = []string{"hours ago", "today", "breaking", "just", "new"}
