package model

// PageData is the context every layout executes with.
type PageData struct {
	Site      *SiteData
	Post      *Post
	PageTitle string
	Layout    string
}
