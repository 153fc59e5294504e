package crawler

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Keyword categories. The dictionary maps each keyword substring to the
// category it belongs to so downstream tagging can stay data-driven.
const (
	CategorySymptom    = "symptom"
	CategoryMedication = "medication"
	CategoryCare       = "care"
)

// defaultKeywords is the built-in health/medication dictionary (zh-TW).
// Matching is exact substring, no tokenization, case preserved.
var defaultKeywords = map[string][]string{
	CategorySymptom: {
		"感冒", "發燒", "咳嗽", "流感", "腸病毒", "過敏", "氣喘", "鼻炎", "喉嚨痛", "頭痛",
		"腹瀉", "便秘", "腸胃", "胃痛", "噁心", "嘔吐", "疲勞", "失眠", "焦慮", "憂鬱",
		"高血壓", "糖尿病", "癌症", "腫瘤", "中風", "心臟", "肝炎", "腎臟", "痛風", "骨質疏鬆",
		"關節炎", "皮膚炎", "濕疹", "蕁麻疹", "痘痘", "粉刺", "異位性", "紅疹", "癢",
		"懷孕", "產檢", "產後", "哺乳", "母乳", "嬰兒", "幼兒", "兒童", "寶寶",
		"疫情", "確診", "染疫", "隔離", "快篩", "PCR", "疫苗", "施打", "副作用",
	},
	CategoryMedication: {
		"藥", "藥物", "藥品", "用藥", "吃藥", "藥局", "藥師", "處方", "慢性處方",
		"止痛藥", "消炎藥", "抗生素", "退燒藥", "感冒藥", "胃藥", "止咳", "化痰",
		"維他命", "維生素", "保健食品", "營養品", "益生菌", "魚油", "鈣片", "葉黃素",
		"普拿疼", "斯斯", "伏冒", "克流感", "類固醇", "安眠藥", "降血壓", "降血糖",
		"藥膏", "藥水", "藥粉", "軟膏", "眼藥水", "噴劑", "貼布", "酸痛貼布",
	},
	CategoryCare: {
		"健康", "醫療", "醫院", "診所", "看診", "就醫", "掛號", "急診", "住院",
		"醫生", "醫師", "護理師", "檢查", "體檢", "健檢", "抽血", "X光", "超音波",
		"治療", "復健", "手術", "開刀", "化療", "放療",
		"身體", "健康檢查", "預防", "養生", "保養", "調理", "體質",
	},
}

// Dictionary is the health-relevance filter shared by all crawlers.
type Dictionary struct {
	byCategory map[string][]string
	categories []string
}

// DefaultDictionary returns the built-in keyword dictionary.
func DefaultDictionary() *Dictionary {
	return newDictionary(defaultKeywords)
}

// LoadDictionary reads a JSON file mapping category name to keyword list,
// replacing the built-in table. Used for localization and testing.
func LoadDictionary(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDictionary: %w", err)
	}
	var table map[string][]string
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("LoadDictionary: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("LoadDictionary: %s contains no keywords", path)
	}
	return newDictionary(table), nil
}

func newDictionary(table map[string][]string) *Dictionary {
	categories := make([]string, 0, len(table))
	for cat := range table {
		categories = append(categories, cat)
	}
	// Deterministic match order across runs.
	sort.Strings(categories)
	return &Dictionary{byCategory: table, categories: categories}
}

// Match returns the first keyword contained in the text and its category.
func (d *Dictionary) Match(text string) (keyword, category string, ok bool) {
	if text == "" {
		return "", "", false
	}
	for _, cat := range d.categories {
		for _, kw := range d.byCategory[cat] {
			if strings.Contains(text, kw) {
				return kw, cat, true
			}
		}
	}
	return "", "", false
}

// IsHealthRelated reports whether the text contains any dictionary keyword.
func (d *Dictionary) IsHealthRelated(text string) bool {
	_, _, ok := d.Match(text)
	return ok
}
