package models

// Pages are the client-side page identifiers the web front end routes between.
var Pages = []string{
	"home",
	"login",
	"signup",
	"profile",
	"posture-check",
	"about",
	"fitness",
	"nutrition",
	"tracker",
	"community",
	"bmi-calculator",
}
