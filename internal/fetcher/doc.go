// Package fetcher walks the Steam IStoreService/GetAppList listing.
//
// The listing is cursor-paginated: each page carries a have_more_results flag
// and the last_appid to resume from. FetchAll accumulates every page in memory
// and returns the complete list only when the whole walk succeeds; a page that
// fails MaxAttempts times aborts the walk and the partial list is dropped.
//
// Between failed attempts of the same page the client sleeps on an exponential
// schedule (InitialBackoff, then doubling). There is no sleep after the final
// attempt.
//
// Request:
//
//	GET <endpoint>?key=<API_KEY>&max_results=50000&last_appid=<cursor>
//
// Response:
//
//	{"response": {"apps": [{"appid": 10, "name": "Counter-Strike"}],
//	              "have_more_results": true, "last_appid": 10}}
package fetcher
