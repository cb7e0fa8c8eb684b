// Package tool_datetime reports the current date and time.
package tool_datetime

import (
	"context"
	"time"

	"github.com/marubot/maru/src/agent"
)

// Tool name constant
const Name = "get_datetime"

const datetimePrompt = `Get the current date, time, and weekday. Use when the user asks about today's date or the current time, or when scheduling needs a reference point.`

// DateTimeInput represents the parameters for get_datetime
type DateTimeInput struct {
	Timezone string `json:"timezone,omitempty" description:"IANA timezone name, e.g. 'Asia/Seoul'; defaults to the local zone"`
}

// DateTimeOutput represents the response from get_datetime
type DateTimeOutput struct {
	DateTime string `json:"datetime" description:"Current time in RFC3339 format"`
	Weekday  string `json:"weekday" description:"Day of the week"`
	Timezone string `json:"timezone" description:"Effective timezone"`
}

// Tool returns the get_datetime tool definition.
func Tool() (agent.Tool, error) {
	return agent.NewGenericTool(Name, datetimePrompt, handler)
}

func handler(ctx context.Context, input DateTimeInput) (DateTimeOutput, error) {
	loc := time.Local
	if input.Timezone != "" {
		parsed, err := time.LoadLocation(input.Timezone)
		if err == nil {
			loc = parsed
		}
	}
	now := time.Now().In(loc)
	return DateTimeOutput{
		DateTime: now.Format(time.RFC3339),
		Weekday:  now.Weekday().String(),
		Timezone: loc.String(),
	}, nil
}
