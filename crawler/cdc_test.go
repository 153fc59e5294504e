package crawler

import (
	"testing"

	"medipoint/database"
)

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"流感進入流行期，單週就診破十萬", database.RiskHigh},
		{"新增2例腸病毒重症個案", database.RiskHigh},
		{"疫情高峰將至，籲請儘速接種", database.RiskHigh},
		{"國內新增1例本土登革熱死亡病例", database.RiskHigh},
		{"緊急提醒：出國旅遊注意麻疹", database.RiskHigh},
		{"例行疫苗接種說明會", database.RiskMedium},
		{"", database.RiskMedium},
	}

	for _, tt := range tests {
		if got := riskLevel(tt.title); got != tt.want {
			t.Errorf("riskLevel(%q) = %s, want %s", tt.title, got, tt.want)
		}
	}
}

const cdcListingHTML = `
<html><body>
<div class="content-boxes-v3">
  <a href="/Bulletin/Detail/1" title="流感進入流行期，單週就診破十萬">item</a>
  <a href="/Bulletin/Detail/2" title="例行疫苗接種說明會">item</a>
  <a href="/Bulletin/Detail/3">no title attribute</a>
  <a href="/Bulletin/Detail/4" title="腸病毒重症通報"></a>
  <a href="/Bulletin/Detail/5" title="登革熱防治講座"></a>
  <a href="/Bulletin/Detail/6" title="麻疹境外移入個案"></a>
  <a href="/Bulletin/Detail/7" title="超過上限的公告"></a>
</div>
</body></html>`

func TestParseCDCListing(t *testing.T) {
	items := parseCDCListing(mustDoc(t, cdcListingHTML), cdcMaxItems)

	// The untitled third anchor sits inside the 5-anchor window and only
	// shrinks the result; anchors past the window never take its place.
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d: %v", len(items), items)
	}
	if items[0].Title != "流感進入流行期，單週就診破十萬" {
		t.Errorf("unexpected first title %q", items[0].Title)
	}
	if items[0].URL != cdcBaseURL+"/Bulletin/Detail/1" {
		t.Errorf("unexpected first url %q", items[0].URL)
	}
	if items[3].Title != "登革熱防治講座" {
		t.Errorf("unexpected last title %q", items[3].Title)
	}
	for _, item := range items {
		if item.Title == "麻疹境外移入個案" || item.Title == "超過上限的公告" {
			t.Errorf("anchor past the scan window must not be included, got %q", item.Title)
		}
	}
}
