package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	summaryUnavailable   = "（AI 摘要目前無法產生）"
	talkingPointFallback = "目前無法產生銷售話術，建議先向顧客說明現有供貨狀況，並推薦成分相近的替代商品。"
)

// buildSummaryPrompt embeds the slim report JSON in the daily-summary template.
func buildSummaryPrompt(report any) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	return fmt.Sprintf(`你是一位連鎖藥局的營運分析師，請閱讀下面的 JSON 報表，寫出「給門市店長看」的一頁式簡短摘要。

請用繁體中文，口吻專業但不要太學術。

輸出格式請大致如下（不用顯示標題編號）：
1. 一句話總結今天表現（例如：整體銷售較過去 7 天略為成長，主力來自＊＊品類）
2. 列出 3 點以內的「短期動作建議」（每點一行，前面加 -）
   - 優先補貨哪些品項或品類（可以參考 low_stock / spike_products）
   - 若有暴增品項，提醒可能與季節、疫情、新聞事件有關
3. 給門市同仁的標準話術建議（1～2 句），例如：
   - 面對缺貨品項可以怎麼推薦替代商品
   - 面對客人詢問熱賣品項時可以怎麼說

不要解釋 JSON 結構，只要直接講結論與建議。

以下是報表 JSON（已簡化）：
%s`, payload), nil
}

// buildTalkingPointPrompt asks for a short staff-facing talking point.
func buildTalkingPointPrompt(topic string, products []string, reason string) string {
	return fmt.Sprintf(`你是一位連鎖藥局的資深藥師，請針對目前的狀況產生一段「給門市同仁的銷售話術」。

主題：%s
相關商品：%s
背景原因：%s

請用繁體中文，1～2 句話，口吻親切專業，可以直接對顧客說出口。不要條列，不要解釋原因，直接給話術。`,
		topic, strings.Join(products, "、"), reason)
}

// buildInsightPrompt asks for a strict-JSON analysis of one forum/news text.
func buildInsightPrompt(text string) string {
	return fmt.Sprintf(`你是一個藥局輿情分析模型。
文章內容如下：

%s

請分析這段內容，並輸出 **純 JSON**：

{
  "intent": "想買 / 求知 / 抱怨 / 比價 / 缺貨",
  "sentiment": "positive / negative / neutral",
  "brand": "偵測到的品牌（沒有則空字串）",
  "ingredient": "成分/學名（沒有則空字串）",
  "symptom": "提到的症狀（沒有則空字串）",
  "confidence": 0.0
}

請務必只回傳 JSON，不能有其他文字。`, text)
}
