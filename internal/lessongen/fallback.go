package lessongen

import (
	"time"

	"github.com/google/uuid"

	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
)

// fallbackItems is a static pre-vetted sentence set respecting the standard
// 4/3/2/1 category balance. Served only as an explicit degraded response.
var fallbackItems = []lesson.Item{
	{Kind: lesson.KindSentence, Term: "I go to the market with my mother every Sunday morning.", Translation: "ฉันไปตลาดกับแม่ทุกเช้าวันอาทิตย์"},
	{Kind: lesson.KindSentence, Term: "My brother likes to eat rice and chicken for lunch.", Translation: "พี่ชายของฉันชอบกินข้าวกับไก่เป็นอาหารกลางวัน"},
	{Kind: lesson.KindSentence, Term: "The train to the airport leaves at seven in the morning.", Translation: "รถไฟไปสนามบินออกตอนเจ็ดโมงเช้า"},
	{Kind: lesson.KindSentence, Term: "We usually drink iced coffee at the small shop near work.", Translation: "พวกเรามักดื่มกาแฟเย็นที่ร้านเล็กๆ ใกล้ที่ทำงาน"},
	{Kind: lesson.KindSentence, Term: "Where can I buy fresh vegetables near the hotel today?", Translation: "วันนี้ฉันซื้อผักสดใกล้โรงแรมได้ที่ไหน"},
	{Kind: lesson.KindSentence, Term: "How much does a ticket to the city center cost?", Translation: "ตั๋วไปใจกลางเมืองราคาเท่าไหร่"},
	{Kind: lesson.KindSentence, Term: "Do you want some water or tea with your meal?", Translation: "คุณต้องการน้ำหรือชากับอาหารไหม"},
	{Kind: lesson.KindSentence, Term: "Please speak a little more slowly so I can understand.", Translation: "กรุณาพูดช้าลงอีกนิดเพื่อให้ฉันเข้าใจ"},
	{Kind: lesson.KindSentence, Term: "Please show me the way to the nearest train station.", Translation: "กรุณาบอกทางไปสถานีรถไฟที่ใกล้ที่สุด"},
	{Kind: lesson.KindSentence, Term: "I don't have enough money for the blue shirt today.", Translation: "วันนี้ฉันมีเงินไม่พอสำหรับเสื้อสีฟ้า"},
}

// FallbackLesson returns a fresh copy of the static fallback lesson.
// Substituting it for a failed generation is a caller policy choice and must
// be logged as a degraded response, never silent.
func FallbackLesson(level lesson.LevelTag, topic string) *lesson.Lesson {
	if !level.Valid() {
		level = lesson.LevelA1
	}
	if topic == "" {
		topic = DefaultTopic
	}

	items := make([]lesson.Item, len(fallbackItems))
	copy(items, fallbackItems)

	l := &lesson.Lesson{
		ID:        uuid.NewString(),
		Title:     lessonTitle(topic),
		LevelTag:  level,
		Topic:     topic,
		Items:     items,
		Status:    lesson.StatusIncomplete,
		CreatedAt: time.Now().UTC(),
	}
	l.Fingerprint = fingerprint.Lesson(l)
	return l
}
