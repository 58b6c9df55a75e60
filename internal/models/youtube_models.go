package models

// CommentThreadListResponse is one page of commentThreads.list.
type CommentThreadListResponse struct {
	Items         []CommentThread `json:"items"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
	PageInfo      struct {
		TotalResults   int `json:"totalResults"`
		ResultsPerPage int `json:"resultsPerPage"`
	} `json:"pageInfo"`
}

type CommentThread struct {
	ID      string `json:"id"`
	Snippet struct {
		VideoID         string  `json:"videoId"`
		TopLevelComment Comment `json:"topLevelComment"`
		TotalReplyCount int     `json:"totalReplyCount"`
	} `json:"snippet"`
}

type Comment struct {
	ID      string `json:"id"`
	Snippet struct {
		TextDisplay       string `json:"textDisplay"`
		TextOriginal      string `json:"textOriginal"`
		AuthorDisplayName string `json:"authorDisplayName"`
		PublishedAt       string `json:"publishedAt"`
	} `json:"snippet"`
}

// YouTubeErrorResponse is the Google API error envelope.
type YouTubeErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Domain  string `json:"domain"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}
