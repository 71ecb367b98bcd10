package records

import (
	"strings"
	"unicode"

	"github.com/HIkaru827/musclegram/internal/models"
)

// CategoryOf maps a PR type to its display category.
func CategoryOf(t models.PRType) models.Category {
	switch t {
	case models.PRTypeE1RM, models.PRType3RM:
		return models.CategoryMaxStrength
	case models.PRType5RM, models.PRType8RM:
		return models.CategoryEndurance
	default:
		return models.CategoryVolume
	}
}

// exerciseMuscleGroups is the canonical exercise dictionary, keyed by
// normalised name.
var exerciseMuscleGroups = map[string]models.MuscleGroup{
	"ベンチプレス":         models.MuscleGroupChest,
	"インクラインベンチプレス":   models.MuscleGroupChest,
	"ダンベルプレス":        models.MuscleGroupChest,
	"ダンベルフライ":        models.MuscleGroupChest,
	"チェストプレス":        models.MuscleGroupChest,
	"ディップス":          models.MuscleGroupChest,
	"腕立て伏せ":          models.MuscleGroupChest,
	"デッドリフト":         models.MuscleGroupBack,
	"ラットプルダウン":       models.MuscleGroupBack,
	"懸垂":             models.MuscleGroupBack,
	"チンニング":          models.MuscleGroupBack,
	"ベントオーバーロウ":      models.MuscleGroupBack,
	"シーテッドロウ":        models.MuscleGroupBack,
	"スクワット":          models.MuscleGroupLegs,
	"レッグプレス":         models.MuscleGroupLegs,
	"レッグカール":         models.MuscleGroupLegs,
	"レッグエクステンション":    models.MuscleGroupLegs,
	"ブルガリアンスクワット":    models.MuscleGroupLegs,
	"カーフレイズ":         models.MuscleGroupLegs,
	"バーベルカール":        models.MuscleGroupArms,
	"ダンベルカール":        models.MuscleGroupArms,
	"ハンマーカール":        models.MuscleGroupArms,
	"トライセプスエクステンション": models.MuscleGroupArms,
	"フレンチプレス":        models.MuscleGroupArms,
	"ショルダープレス":       models.MuscleGroupShoulders,
	"オーバーヘッドプレス":     models.MuscleGroupShoulders,
	"サイドレイズ":         models.MuscleGroupShoulders,
	"リアレイズ":          models.MuscleGroupShoulders,
	"アップライトロウ":       models.MuscleGroupShoulders,
	"ランニング":          models.MuscleGroupCardio,
	"ウォーキング":         models.MuscleGroupCardio,
	"エアロバイク":         models.MuscleGroupCardio,

	// English names from imported exports.
	"benchpress":        models.MuscleGroupChest,
	"inclinebenchpress": models.MuscleGroupChest,
	"deadlift":          models.MuscleGroupBack,
	"latpulldown":       models.MuscleGroupBack,
	"pullup":            models.MuscleGroupBack,
	"squat":             models.MuscleGroupLegs,
	"backsquat":         models.MuscleGroupLegs,
	"hacksquats":        models.MuscleGroupLegs,
	"legpress":          models.MuscleGroupLegs,
	"bicepscurl":        models.MuscleGroupArms,
	"overheadpress":     models.MuscleGroupShoulders,
	"lateralraise":      models.MuscleGroupShoulders,
}

type keywordRule struct {
	group    models.MuscleGroup
	keywords []string
}

// keywordRules is the fallback for names missing from the dictionary. Order
// matters: "レッグカール" must hit legs before the arm "カール" keyword.
var keywordRules = []keywordRule{
	{models.MuscleGroupCardio, []string{"有酸素", "ランニング", "ジョギング", "ウォーキング", "バイク", "トレッドミル", "スイミング", "running", "bike", "row machine"}},
	{models.MuscleGroupLegs, []string{"脚", "スクワット", "レッグ", "ランジ", "カーフ", "squat", "leg", "lunge", "calf"}},
	{models.MuscleGroupShoulders, []string{"肩", "ショルダー", "サイドレイズ", "リアレイズ", "フロントレイズ", "リアデルト", "オーバーヘッド", "shoulder", "lateral raise", "overhead"}},
	{models.MuscleGroupBack, []string{"背中", "デッドリフト", "ラット", "懸垂", "チンニング", "ロウ", "プルダウン", "deadlift", "row", "pulldown", "pull-up", "pullup", "chin-up", "chinup"}},
	{models.MuscleGroupChest, []string{"胸", "ベンチ", "チェスト", "フライ", "ディップス", "クロスオーバー", "腕立て", "bench", "chest", "fly", "dip"}},
	{models.MuscleGroupArms, []string{"腕", "カール", "二頭", "三頭", "トライセプス", "バイセップス", "フレンチプレス", "curl", "tricep", "bicep"}},
}

// MuscleGroupOf resolves the muscle group for an exercise name. The
// dictionary is consulted first, then keyword matching. Unrecognised names
// return MuscleGroupOther and false.
func MuscleGroupOf(exerciseName string) (models.MuscleGroup, bool) {
	key := normalizeName(exerciseName)
	if key == "" {
		return models.MuscleGroupOther, false
	}
	if g, ok := exerciseMuscleGroups[key]; ok {
		return g, true
	}
	lower := strings.ToLower(exerciseName)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.group, true
			}
		}
	}
	return models.MuscleGroupOther, false
}

// normalizeName lowercases and strips whitespace and separators so that
// "Bench Press", "bench-press" and "ベンチ プレス" share a key.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '・' || r == '·' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Grouped holds records bucketed for the PR dashboard.
type Grouped struct {
	ByCategory    map[models.Category][]models.PRRecord    `json:"by_category"`
	ByMuscleGroup map[models.MuscleGroup][]models.PRRecord `json:"by_muscle_group"`
}

// GroupRecords buckets records by category and muscle group, keeping the
// input order inside each bucket.
func GroupRecords(recs []models.PRRecord) Grouped {
	g := Grouped{
		ByCategory:    make(map[models.Category][]models.PRRecord),
		ByMuscleGroup: make(map[models.MuscleGroup][]models.PRRecord),
	}
	for _, r := range recs {
		g.ByCategory[CategoryOf(r.PRType)] = append(g.ByCategory[CategoryOf(r.PRType)], r)
		mg, _ := MuscleGroupOf(r.ExerciseName)
		g.ByMuscleGroup[mg] = append(g.ByMuscleGroup[mg], r)
	}
	return g
}

// Classification is the display grouping of an exercise and, when a PR type
// is given, of that type.
type Classification struct {
	Exercise    string             `json:"exercise"`
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
	Known       bool               `json:"known"`
	PRType      models.PRType      `json:"pr_type,omitempty"`
	Category    models.Category    `json:"category,omitempty"`
}

// Classify looks up the muscle group of exercise and the category of t.
// An empty t leaves the category unset.
func Classify(exercise string, t models.PRType) Classification {
	mg, known := MuscleGroupOf(exercise)
	c := Classification{Exercise: exercise, MuscleGroup: mg, Known: known}
	if t != "" {
		c.PRType = t
		c.Category = CategoryOf(t)
	}
	return c
}
