package notes

import "strings"

// LanguageBundle selects the curated alphabet and resource blocks for a
// course language.
type LanguageBundle int

const (
	BundleGeneric LanguageBundle = iota
	BundleArabic
	BundleJapanese
	BundleChinese
	BundleSpanish
	BundleFrench
	BundleGerman
	BundleRussian
)

var bundleByCode = map[string]LanguageBundle{
	"ar": BundleArabic,
	"ja": BundleJapanese,
	"zh": BundleChinese,
	"es": BundleSpanish,
	"fr": BundleFrench,
	"de": BundleGerman,
	"ru": BundleRussian,
}

// BundleFor maps a language code such as "ja" or "zh-CN" onto its bundle.
// Unknown codes get BundleGeneric.
func BundleFor(code string) LanguageBundle {
	base := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	if b, ok := bundleByCode[base]; ok {
		return b
	}
	return BundleGeneric
}

func (b LanguageBundle) String() string {
	switch b {
	case BundleArabic:
		return "arabic"
	case BundleJapanese:
		return "japanese"
	case BundleChinese:
		return "chinese"
	case BundleSpanish:
		return "spanish"
	case BundleFrench:
		return "french"
	case BundleGerman:
		return "german"
	case BundleRussian:
		return "russian"
	default:
		return "generic"
	}
}

// RightToLeft reports whether the script is written right to left.
func (b LanguageBundle) RightToLeft() bool {
	return b == BundleArabic
}

// Alphabet returns the script primer, or "" for Latin-script languages.
func (b LanguageBundle) Alphabet() string {
	switch b {
	case BundleArabic:
		return arabicAlphabet
	case BundleJapanese:
		return japaneseAlphabet
	case BundleChinese:
		return chineseAlphabet
	case BundleRussian:
		return russianAlphabet
	default:
		return ""
	}
}

// Resources returns the external resources block.
func (b LanguageBundle) Resources() string {
	switch b {
	case BundleArabic:
		return arabicResources
	case BundleJapanese:
		return japaneseResources
	case BundleChinese:
		return chineseResources
	case BundleSpanish:
		return spanishResources
	case BundleFrench:
		return frenchResources
	case BundleGerman:
		return germanResources
	case BundleRussian:
		return russianResources
	default:
		return genericResources
	}
}

const arabicAlphabet = `<a name="alphabet"></a>
## 🔤 Arabic Alphabet (الأبجدية العربية)

28 letters, written right-to-left, with different forms per position.

| Letter | Name | Sound | Notes |
|--------|------|-------|-------|
| ا | alif | ā | Long 'a' |
| ب | bā' | b | Like 'b' in 'bat' |
| ت | tā' | t | Like 't' in 'top' |
| ث | thā' | th | Like 'th' in 'think' |
| ج | jīm | j | Like 'j' in 'jam' |
| ح | ḥā' | ḥ | Breathy 'h' from the throat |
| خ | khā' | kh | Like 'ch' in 'Bach' |

[See the full alphabet in the course materials]

**Practice:**
- Duolingo Arabic alphabet course
- Write It! Arabic (iOS/Android)
- YouTube: "Learn Arabic Alphabet" by ArabicPod101

---`

const japaneseAlphabet = `<a name="alphabet"></a>
## 🔤 Japanese Writing Systems

Japanese uses three scripts: Hiragana, Katakana and Kanji.

### Hiragana (46 characters)
Native Japanese words and grammatical endings.

### Katakana (46 characters)
Foreign loanwords and emphasis.

### Kanji (2000+ in common use)
Chinese characters carrying meaning.

**Practice:**
- Duolingo Japanese
- WaniKani for Kanji
- Tofugu Hiragana/Katakana guides

---`

const chineseAlphabet = `<a name="alphabet"></a>
## 🔤 Chinese Characters (汉字)

Mandarin Chinese uses logographic characters.

**Common radicals:**
- 人 (rén) - person
- 口 (kǒu) - mouth
- 手 (shǒu) - hand

**Tone marks:**
- First tone: ā (high level)
- Second tone: á (rising)
- Third tone: ǎ (falling-rising)
- Fourth tone: à (falling)

---`

const russianAlphabet = `<a name="alphabet"></a>
## 🔤 Russian Alphabet (Кириллица)

33 letters in Cyrillic script.

| Letter | Sound | Example |
|--------|-------|---------|
| А а | a | like 'a' in 'father' |
| Б б | b | like 'b' in 'book' |
| В в | v | like 'v' in 'very' |
| Г г | g | like 'g' in 'go' |

[Full alphabet chart in the course materials]

---`

const genericResources = `<a name="resources"></a>
## 🌟 Language Learning Resources

### 📱 Recommended Apps
- **Duolingo** - Free gamified learning
- **Memrise** - Vocabulary with mnemonics
- **Busuu** - Structured courses
- **Anki** - Spaced repetition flashcards

### 🎥 YouTube
- Search: "[Language] for beginners"
- Easy Languages channel

### 🌐 Websites
- iTalki - Find tutors
- Tandem - Language exchange
- LingQ - Reading and listening

### 📚 Study Tips
1. Practice daily (15-30 min minimum)
2. Use spaced repetition
3. Immerse yourself with music, films and podcasts
4. Speak from day one
5. Join online communities

---`

const arabicResources = `<a name="resources"></a>
## 🌟 Arabic Learning Resources

### 📱 Mobile Apps
- **Duolingo Arabic** - Gamified learning
- **Memrise** - Vocabulary with native speakers
- **Busuu** - Complete course A1-B2
- **Write It! Arabic** - Letter writing practice
- **Drops** - 5-minute daily vocabulary

### 🎥 YouTube Channels
- Learn Arabic with Maha
- ArabicPod101
- Easy Arabic (street interviews)

### 🌐 Websites
- ArabicOnline.eu - Free comprehensive course
- Madinah Arabic - Free textbooks
- Al Jazeera Learning - News by level

### 📚 Textbooks
- Al-Kitaab series
- Mastering Arabic
- Arabic for Nerds

### 💬 Communities
- r/learn_arabic
- iTalki - 1-on-1 tutors

---`

const japaneseResources = `<a name="resources"></a>
## 🌟 Japanese Learning Resources

### 📱 Apps
- Duolingo Japanese
- WaniKani (Kanji)
- Bunpro (Grammar SRS)
- HelloTalk (Language exchange)

### 🎥 YouTube
- Japanese Ammo with Misa
- JapanesePod101
- Comprehensible Japanese

### 📚 Reading
- Tae Kim's Grammar Guide
- Genki textbooks
- NHK News Web Easy

---`

const chineseResources = `<a name="resources"></a>
## 🌟 Chinese Learning Resources

### 📱 Apps
- Duolingo Chinese
- HelloChinese
- Pleco (dictionary)

### 🎥 YouTube
- ChinesePod101
- Learn Chinese with ChineseFor.Us
- Mandarin Corner

---`

const spanishResources = `<a name="resources"></a>
## 🌟 Spanish Learning Resources

### 📱 Apps
- Duolingo Spanish
- Babbel
- SpanishDict dictionary

### 🎥 YouTube
- Butterfly Spanish
- SpanishPod101
- Easy Spanish

### 📺 Series
- La Casa de Papel
- Élite

---`

const frenchResources = `<a name="resources"></a>
## 🌟 French Learning Resources

### 📱 Apps
- Duolingo French
- Babbel
- TV5Monde

### 🎥 YouTube
- FrenchPod101
- Easy French
- Français avec Pierre

---`

const germanResources = `<a name="resources"></a>
## 🌟 German Learning Resources

### 📱 Apps
- Duolingo German
- Babbel
- DW Learn German

### 🎥 YouTube
- Easy German
- GermanPod101
- Learn German with Anja

---`

const russianResources = `<a name="resources"></a>
## 🌟 Russian Learning Resources

### 📱 Apps
- Duolingo Russian
- RussianPod101
- Memrise Russian

### 🎥 YouTube
- Russian with Max
- Easy Russian
- Be Fluent in Russian

---`
