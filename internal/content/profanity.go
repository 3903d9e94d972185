package content

// DefaultDenylist is the built-in profanity list. A policy file may replace it.
var DefaultDenylist = []string{
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"bastard",
	"cunt",
	"dickhead",
	"motherfucker",
	"slut",
	"whore",
	"wanker",
	"twat",
	"bollocks",
	"retard",
}
