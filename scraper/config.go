package scraper

// BoardConfig defines where things live on a board's listing and article
// pages. The defaults match PTT's web layout.
type BoardConfig struct {
	ListConfig    ListConfig    `json:"list_config" yaml:"list"`
	ArticleConfig ArticleConfig `json:"article_config" yaml:"article"`
}

// ListConfig defines how to read entries and paging controls from a
// listing page.
type ListConfig struct {
	EntrySelector      string `json:"entry_selector" yaml:"entry_selector"`
	TitleSelector      string `json:"title_selector" yaml:"title_selector"`           // Relative to the entry; must match an <a>
	PopularitySelector string `json:"popularity_selector" yaml:"popularity_selector"` // Relative to the entry
	PagingSelector     string `json:"paging_selector" yaml:"paging_selector"`
	PreviousPageText   string `json:"previous_page_text" yaml:"previous_page_text"`
}

// ArticleConfig defines how to read an article page.
type ArticleConfig struct {
	ContentSelector string `json:"content_selector" yaml:"content_selector"`
}

// DefaultBoardConfig returns selectors for PTT boards.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		ListConfig: ListConfig{
			EntrySelector:      "div.r-ent",
			TitleSelector:      "div.title > a",
			PopularitySelector: "div.nrec > span",
			PagingSelector:     "div.btn-group-paging a",
			PreviousPageText:   "‹ 上頁",
		},
		ArticleConfig: ArticleConfig{
			ContentSelector: "#main-content",
		},
	}
}

// WithDefaults fills any empty selector from DefaultBoardConfig.
func (c BoardConfig) WithDefaults() BoardConfig {
	d := DefaultBoardConfig()

	if c.ListConfig.EntrySelector == "" {
		c.ListConfig.EntrySelector = d.ListConfig.EntrySelector
	}
	if c.ListConfig.TitleSelector == "" {
		c.ListConfig.TitleSelector = d.ListConfig.TitleSelector
	}
	if c.ListConfig.PopularitySelector == "" {
		c.ListConfig.PopularitySelector = d.ListConfig.PopularitySelector
	}
	if c.ListConfig.PagingSelector == "" {
		c.ListConfig.PagingSelector = d.ListConfig.PagingSelector
	}
	if c.ListConfig.PreviousPageText == "" {
		c.ListConfig.PreviousPageText = d.ListConfig.PreviousPageText
	}
	if c.ArticleConfig.ContentSelector == "" {
		c.ArticleConfig.ContentSelector = d.ArticleConfig.ContentSelector
	}

	return c
}
