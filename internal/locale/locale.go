// Package locale selects the user-facing language and holds the translated
// strings shared by the prompt, the form and the renderer.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported languages. The first entry is the fallback.
var Supported = []language.Tag{
	language.TraditionalChinese,
	language.English,
}

var matcher = language.NewMatcher(Supported)

// Message keys. The English catalog maps each key to itself.
const (
	KeyTitle        = "Food calorie log"
	KeyInputTitle   = "What did you eat?"
	KeyPlaceholder  = "Enter something you ate today..."
	KeyRecords      = "Today's records:"
	KeyTotal        = "Total:"
	KeyCalories     = "Calories"
	KeyProtein      = "Protein"
	KeyFat          = "Fat"
	KeyCarbs        = "Carbs"
	KeyNoRecords    = "Nothing logged yet."
	KeyAnalyzing    = "Analyzing..."
	KeyFailure      = "Could not parse the result, please try again."
	KeyEstimate     = "estimate.prompt"
	KeyRetryHint    = "Press Enter to retry %q"
	KeyUnitCalories = "%v kcal"
	KeyUnitGrams    = "%vg"
)

const promptEnglish = `Estimate the calories and nutrients (calories, protein, fat, carbohydrates) for one serving of "%s". Reply with a JSON object only, shaped like this: { "name": "chicken leg bento", "calories": 700, "protein": 35, "fat": 25, "carbs": 80 }`

const promptChinese = `請幫我估算一份「%s」的熱量與營養素（熱量、蛋白質、脂肪、碳水），輸出格式為 JSON 物件，像這樣：{ "name": "雞腿便當", "calories": 700, "protein": 35, "fat": 25, "carbs": 80 }`

func init() {
	en := language.English
	for _, k := range []string{
		KeyTitle, KeyInputTitle, KeyPlaceholder, KeyRecords, KeyTotal,
		KeyCalories, KeyProtein, KeyFat, KeyCarbs, KeyNoRecords, KeyAnalyzing,
		KeyFailure, KeyRetryHint, KeyUnitCalories, KeyUnitGrams,
	} {
		mustSet(en, k, k)
	}
	mustSet(en, KeyEstimate, promptEnglish)

	zh := language.TraditionalChinese
	mustSet(zh, KeyTitle, "食物熱量紀錄器")
	mustSet(zh, KeyInputTitle, "今天吃了什麼？")
	mustSet(zh, KeyPlaceholder, "輸入今天吃的東西...")
	mustSet(zh, KeyRecords, "今日紀錄：")
	mustSet(zh, KeyTotal, "總計：")
	mustSet(zh, KeyCalories, "熱量")
	mustSet(zh, KeyProtein, "蛋白質")
	mustSet(zh, KeyFat, "脂肪")
	mustSet(zh, KeyCarbs, "碳水")
	mustSet(zh, KeyNoRecords, "尚無紀錄。")
	mustSet(zh, KeyAnalyzing, "分析中...")
	mustSet(zh, KeyFailure, "無法解析回傳結果，請再試一次")
	mustSet(zh, KeyRetryHint, "按 Enter 重新送出 %q")
	mustSet(zh, KeyUnitCalories, "%v kcal")
	mustSet(zh, KeyUnitGrams, "%vg")
	mustSet(zh, KeyEstimate, promptChinese)
}

func mustSet(tag language.Tag, key, msg string) {
	if err := message.SetString(tag, key, msg); err != nil {
		panic("locale: " + err.Error())
	}
}

// Match maps a user-supplied language name (e.g. "zh-TW", "en-US") to one of
// the Supported tags. Unknown or empty input yields the fallback.
func Match(s string) language.Tag {
	if s == "" {
		return Supported[0]
	}
	_, idx := language.MatchStrings(matcher, s)
	return Supported[idx]
}

// Printer returns a printer for one of the Supported tags.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Name returns the BCP 47 form written to config files for tag.
func Name(tag language.Tag) string {
	if tag == language.TraditionalChinese {
		return "zh-TW"
	}
	return tag.String()
}
