package consts

const (
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamDate      = "date"
	ParamCount     = "count"
	ParamThumbs    = "thumbs"

	// dashboard form field carrying the start date the form was rendered with
	ParamPrevStartDate = "prev_start_date"

	TimeFormat = "2006-01-02"

	// layout of the day part in picture cache keys, e.g. "Mon Oct 19 2026"
	CacheDayFormat = "Mon Jan 02 2006"
	CacheKeyFormat = "{NASA-API-DATA:%s}"

	// maximum span of a feed request in days
	FeedRangeDays = 7

	ApiKey = "api_key"

	ApodURL = "https://api.nasa.gov/planetary/apod"
	FeedURL = "https://api.nasa.gov/neo/rest/v1/feed"

	EndpointApod = "apod"
	EndpointFeed = "neofeed"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)
