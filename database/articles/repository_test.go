package articles

import (
	"testing"

	"medipoint/database"
)

func TestArticleFilter(t *testing.T) {
	tests := []struct {
		name    string
		article database.RawArticle
		wantKey string
		wantVal string
	}{
		{
			name:    "live article keyed by url",
			article: database.RawArticle{Title: "最近流感好嚴重", URL: "https://www.ptt.cc/bbs/Health/M.123.html", Status: database.ArticleStatusNew},
			wantKey: "url",
			wantVal: "https://www.ptt.cc/bbs/Health/M.123.html",
		},
		{
			name:    "mock article keyed by title",
			article: database.RawArticle{Title: "請問大家有推薦的維他命C嗎？", URL: "https://www.dcard.tw/f/health/p/1", Status: database.ArticleStatusMock},
			wantKey: "title",
			wantVal: "請問大家有推薦的維他命C嗎？",
		},
		{
			name:    "missing url falls back to title",
			article: database.RawArticle{Title: "無連結文章", Status: database.ArticleStatusNew},
			wantKey: "title",
			wantVal: "無連結文章",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := articleFilter(&tt.article)
			if len(filter) != 1 {
				t.Fatalf("expected single-key filter, got %v", filter)
			}
			got, ok := filter[tt.wantKey]
			if !ok {
				t.Fatalf("expected filter on %q, got %v", tt.wantKey, filter)
			}
			if got != tt.wantVal {
				t.Errorf("expected %q, got %v", tt.wantVal, got)
			}
		})
	}
}
