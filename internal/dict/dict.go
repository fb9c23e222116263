// Package dict holds a small static English-to-Thai seed dictionary used to
// backfill translations the generator left blank. It covers everyday beginner
// vocabulary only; anything else stays untranslated for the UI to handle.
package dict

import (
	"strings"

	"github.com/thanida/engbee/internal/lesson"
)

var seed = map[string]string{
	"vegetable": "ผัก",
	"very":      "มาก",
	"west":      "ตะวันตก",
	"apple":     "แอปเปิล",
	"egg":       "ไข่",
	"market":    "ตลาด",
	"rice":      "ข้าว",
	"chicken":   "ไก่",
	"fish":      "ปลา",
	"bread":     "ขนมปัง",
	"water":     "น้ำ",
	"milk":      "นม",
	"coffee":    "กาแฟ",
	"tea":       "ชา",
	"hello":     "สวัสดี",
	"goodbye":   "ลาก่อน",
	"please":    "กรุณา",
	"thank you": "ขอบคุณ",
	"bathroom":  "ห้องน้ำ",
	"money":     "เงิน",
	"train":     "รถไฟ",
	"bus":       "รถบัส",
	"airport":   "สนามบิน",
	"hotel":     "โรงแรม",
	"family":    "ครอบครัว",
	"work":      "งาน",
	"shop":      "ร้านค้า",
	"buy":       "ซื้อ",
	"sell":      "ขาย",
	"price":     "ราคา",
}

// Lookup returns the Thai translation for an English word or phrase, if the
// seed dictionary knows it.
func Lookup(term string) (string, bool) {
	th, ok := seed[strings.ToLower(strings.TrimSpace(term))]
	return th, ok
}

// Backfill fills blank translations on word and phrase items in place.
// Sentence and text items are left alone; the dictionary is word-level.
func Backfill(items []lesson.Item) {
	for i := range items {
		it := &items[i]
		if it.Translation != "" {
			continue
		}
		if it.Kind != lesson.KindWord && it.Kind != lesson.KindPhrase {
			continue
		}
		if th, ok := Lookup(it.Term); ok {
			it.Translation = th
		}
	}
}
