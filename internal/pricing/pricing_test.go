package pricing

import (
	"math"
	"testing"

	"github.com/Simplici0/valley.works/internal/catalog"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func intp(v int) *int { return &v }

func TestApplyQualityMultiplier(t *testing.T) {
	cases := []struct {
		base    int
		quality catalog.Quality
		want    int
	}{
		{100, catalog.QualityNormal, 100},
		{100, catalog.QualitySilver, 125},
		{100, catalog.QualityGold, 150},
		{100, catalog.QualityIridium, 200},
		{35, catalog.QualitySilver, 43},
		{35, catalog.QualityGold, 52},
		{35, catalog.Quality("mythic"), 35},
	}
	for _, tc := range cases {
		if got := ApplyQualityMultiplier(tc.base, tc.quality); got != tc.want {
			t.Fatalf("ApplyQualityMultiplier(%d, %s) = %d, want %d", tc.base, tc.quality, got, tc.want)
		}
	}
}

func TestApplyQualityMultiplierIsMonotonic(t *testing.T) {
	for base := 0; base <= 2000; base += 7 {
		prev := -1
		for _, q := range catalog.Qualities {
			got := ApplyQualityMultiplier(base, q)
			if got < prev {
				t.Fatalf("base %d: %s price %d below previous tier %d", base, q, got, prev)
			}
			prev = got
		}
	}
}

func TestApplyProfessionMultiplier(t *testing.T) {
	cases := []struct {
		profession Profession
		want       int
	}{
		{Tiller, 110},
		{Rancher, 110},
		{Artisan, 140},
		{Angler, 150},
		{BearsKnowledge, 100},
		{Profession("blacksmith"), 100},
	}
	for _, tc := range cases {
		if got := ApplyProfessionMultiplier(100, tc.profession); got != tc.want {
			t.Fatalf("ApplyProfessionMultiplier(100, %s) = %d, want %d", tc.profession, got, tc.want)
		}
	}
}

func TestParseProfession(t *testing.T) {
	for raw, want := range map[string]Profession{
		"Tiller":          Tiller,
		" artisan ":       Artisan,
		"bears_knowledge": BearsKnowledge,
		"bearsKnowledge":  BearsKnowledge,
	} {
		got, err := ParseProfession(raw)
		if err != nil || got != want {
			t.Fatalf("ParseProfession(%q) = (%q, %v), want %q", raw, got, err, want)
		}
	}
	if _, err := ParseProfession("miner"); err == nil {
		t.Fatalf("expected error for unknown profession")
	}
}

func TestGenerateQualities(t *testing.T) {
	set := GenerateQualities(35)
	if set.Normal != 35 || *set.Silver != 43 || *set.Gold != 52 || *set.Iridium != 70 {
		t.Fatalf("GenerateQualities(35) = %d/%d/%d/%d", set.Normal, *set.Silver, *set.Gold, *set.Iridium)
	}
}

func TestComputeViaFormula(t *testing.T) {
	cases := []struct {
		formula string
		base    int
		want    int
	}{
		{"smoked_fish", 75, 112},
		{"smoked-fish", 75, 112},
		{"roe", 200, 130},
		{"roe", 75, 67},
		{"aged_roe", 130, 260},
		{"aged-roe", 130, 260},
		{"wine", 750, 2250},
		{"juice", 35, 78},
		{"jelly", 50, 150},
		{"pickles", 35, 120},
		{"dried", 50, 375},
	}
	for _, tc := range cases {
		got, ok := ComputeViaFormula(tc.formula, tc.base)
		if !ok || got != tc.want {
			t.Fatalf("ComputeViaFormula(%q, %d) = (%d, %v), want %d", tc.formula, tc.base, got, ok, tc.want)
		}
	}
}

func TestComputeViaFormulaUnknown(t *testing.T) {
	got, ok := ComputeViaFormula("mystery", 100)
	if ok {
		t.Fatalf("ComputeViaFormula(mystery) reported ok with %d", got)
	}
	if HasFormula("mystery") {
		t.Fatalf("HasFormula(mystery) = true")
	}
	if len(FormulaNames()) != 8 {
		t.Fatalf("FormulaNames() = %v", FormulaNames())
	}
}

func TestFormulaPrice(t *testing.T) {
	base, ok := FormulaPrice("wine", 750, catalog.QualityNormal, Context{})
	if !ok || base != 2250 {
		t.Fatalf("wine = (%d, %v), want 2250", base, ok)
	}
	artisan, _ := FormulaPrice("wine", 750, catalog.QualityNormal, Context{Professions: []Profession{Artisan}})
	if artisan != 3150 {
		t.Fatalf("artisan wine = %d, want 3150", artisan)
	}
	iridium, _ := FormulaPrice("wine", 750, catalog.QualityIridium, Context{})
	if iridium != 4500 {
		t.Fatalf("iridium wine = %d, want 4500", iridium)
	}
	roe, _ := FormulaPrice("roe", 200, catalog.QualityNormal, Context{Professions: []Profession{Artisan}})
	if roe != 130 {
		t.Fatalf("roe with artisan = %d, want 130 (roe is not an artisan good)", roe)
	}
	if _, ok := FormulaPrice("mystery", 100, catalog.QualityNormal, Context{}); ok {
		t.Fatalf("unknown formula must not be priced")
	}
}

func fullItem(name string, category catalog.Category, forageable bool, buckets ...catalog.BucketKey) catalog.Item {
	prices := catalog.PriceTable{catalog.BucketBase: {Normal: 100, Gold: intp(150)}}
	for i, b := range buckets {
		prices[b] = catalog.QualitySet{Normal: 200 + i}
	}
	return catalog.Item{Name: name, Category: category, Forageable: forageable, Prices: prices}
}

func TestBucketForPriority(t *testing.T) {
	all := []catalog.BucketKey{
		catalog.BucketTiller, catalog.BucketArtisan, catalog.BucketRancher, catalog.BucketAngler,
		catalog.BucketBearsKnowledge, catalog.BucketBearsKnowledgeTiller,
	}
	ctx := func(foraged bool, ps ...Profession) Context { return Context{Professions: ps, Foraged: foraged} }

	cases := []struct {
		name string
		item catalog.Item
		ctx  Context
		want catalog.BucketKey
	}{
		{"fish with angler", fullItem("Sturgeon", catalog.CategoryFish, false, all...), ctx(false, Angler, Tiller), catalog.BucketAngler},
		{"fish without angler", fullItem("Sturgeon", catalog.CategoryFish, false, all...), ctx(false, Rancher), catalog.BucketBase},
		{"milk with rancher", fullItem("Milk", catalog.CategoryAnimalProduct, false, all...), ctx(false, Rancher), catalog.BucketRancher},
		{"wine with artisan", fullItem("Wine", catalog.CategoryArtisanGood, false, all...), ctx(false, Artisan), catalog.BucketArtisan},
		{"rice with artisan", fullItem("Rice", catalog.CategoryProcessed, false, all...), ctx(false, Artisan), catalog.BucketArtisan},
		{"crop with tiller", fullItem("Parsnip", catalog.CategoryCrop, false, all...), ctx(false, Tiller), catalog.BucketTiller},
		{"crop no professions", fullItem("Parsnip", catalog.CategoryCrop, false, all...), ctx(false), catalog.BucketBase},
		{"artisan good ignores tiller", fullItem("Wine", catalog.CategoryArtisanGood, false, all...), ctx(false, Tiller), catalog.BucketBase},
		{"foraged berry bears+tiller", fullItem("Blackberry", catalog.CategoryFruit, true, all...), ctx(true, BearsKnowledge, Tiller), catalog.BucketBearsKnowledgeTiller},
		{"foraged berry bears only", fullItem("Blackberry", catalog.CategoryFruit, true, all...), ctx(true, BearsKnowledge), catalog.BucketBearsKnowledge},
		{"foraged berry tiller only", fullItem("Salmonberry", catalog.CategoryFruit, true, all...), ctx(true, Tiller), catalog.BucketTiller},
		{"foraged non-berry tiller", fullItem("Spice Berry", catalog.CategoryFruit, true, all...), ctx(true, Tiller), catalog.BucketBase},
		{"foraged non-berry bears+tiller", fullItem("Spice Berry", catalog.CategoryFruit, true, all...), ctx(true, BearsKnowledge, Tiller), catalog.BucketBearsKnowledge},
		{"grown forageable tiller", fullItem("Spice Berry", catalog.CategoryFruit, true, all...), ctx(false, Tiller, BearsKnowledge), catalog.BucketTiller},
	}
	for _, tc := range cases {
		if got := BucketFor(tc.item, tc.ctx); got != tc.want {
			t.Fatalf("%s: BucketFor = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestSelectPriceBucketFallsBackToBase(t *testing.T) {
	parsnip := catalog.Item{
		Name:     "Parsnip",
		Category: catalog.CategoryCrop,
		Prices:   catalog.PriceTable{catalog.BucketBase: {Normal: 100}},
	}
	ctx := Context{Professions: []Profession{Tiller}}

	if got := BucketFor(parsnip, ctx); got != catalog.BucketTiller {
		t.Fatalf("BucketFor = %s, want tiller", got)
	}
	key, bucket := SelectPriceBucket(parsnip, ctx)
	if key != catalog.BucketBase || bucket.Normal != 100 {
		t.Fatalf("SelectPriceBucket = (%s, %+v), want base/100", key, bucket)
	}
	if got := SalePrice(parsnip, catalog.QualityNormal, ctx); got != 100 {
		t.Fatalf("SalePrice = %d, want 100", got)
	}

	parsnip.Prices[catalog.BucketTiller] = catalog.QualitySet{Normal: 110}
	if key, _ := SelectPriceBucket(parsnip, ctx); key != catalog.BucketTiller {
		t.Fatalf("SelectPriceBucket key = %s, want tiller", key)
	}
}

func TestSelectPriceBucketMissingBase(t *testing.T) {
	broken := catalog.Item{Name: "Broken", Category: catalog.CategoryCrop}
	key, bucket := SelectPriceBucket(broken, Context{})
	if key != catalog.BucketBase || bucket.Normal != 0 {
		t.Fatalf("SelectPriceBucket = (%s, %+v), want zero base", key, bucket)
	}
}

func TestPriceForFallsBackToNormal(t *testing.T) {
	bucket := catalog.QualitySet{Normal: 230, Gold: intp(345)}
	cases := map[catalog.Quality]int{
		catalog.QualityNormal:  230,
		catalog.QualitySilver:  230,
		catalog.QualityGold:    345,
		catalog.QualityIridium: 230,
	}
	for q, want := range cases {
		if got := PriceFor(bucket, q); got != want {
			t.Fatalf("PriceFor(%s) = %d, want %d", q, got, want)
		}
	}
}

func TestStarfruitWineScenario(t *testing.T) {
	price, ok := ComputeViaFormula("wine", 750)
	if !ok || price != 2250 {
		t.Fatalf("starfruit wine = (%d, %v), want 2250", price, ok)
	}
}

func TestComputeDeltaAndGoldPerDay(t *testing.T) {
	delta := ComputeDelta(50, 1, 10, 5)
	if delta != 0 {
		t.Fatalf("delta = %d, want 0", delta)
	}
	nearlyEqual(t, "dehydrator gold/day", GoldPerDay(delta, 1, 5, true), 0)

	delta = ComputeDelta(375, 1, 50, 5)
	nearlyEqual(t, "dried blueberry gold/day", GoldPerDay(delta, 1, 5, true), 25)
	nearlyEqual(t, "unnormalized", GoldPerDay(delta, 1, 5, false), 125)

	nearlyEqual(t, "wine gold/day", GoldPerDay(1500, 7, 1, false), 1500.0/7)
	nearlyEqual(t, "zero days", GoldPerDay(100, 0, 1, false), 100)
	nearlyEqual(t, "negative days", GoldPerDay(100, -3, 1, false), 100)
	nearlyEqual(t, "loss is signed", GoldPerDay(-40, 2, 1, false), -20)
}

func TestNormalizesPerInput(t *testing.T) {
	if !NormalizesPerInput("Dehydrator") {
		t.Fatalf("Dehydrator should normalize per input")
	}
	for _, name := range []string{"Keg", "Preserves Jar", "Cask", "Unknown Machine"} {
		if NormalizesPerInput(name) {
			t.Fatalf("%s should not normalize per input", name)
		}
	}
	if len(Processors()) != 10 {
		t.Fatalf("Processors() = %d entries, want 10", len(Processors()))
	}
}

func TestAgingOptions(t *testing.T) {
	wine := catalog.Item{
		Name:     "Starfruit Wine",
		Category: catalog.CategoryArtisanGood,
		Prices: catalog.PriceTable{
			catalog.BucketBase: {Normal: 2250, Silver: intp(2812), Gold: intp(3375), Iridium: intp(4500)},
		},
		Aging: &catalog.AgingDurations{Silver: 14, Gold: 28, Iridium: 56},
	}
	bucket := wine.Prices.Base()

	opts := AgingOptions(wine, bucket, catalog.QualityNormal)
	if len(opts) != 3 {
		t.Fatalf("got %d options, want 3", len(opts))
	}
	if opts[2].Target != catalog.QualityIridium || opts[2].Delta != 2250 {
		t.Fatalf("iridium option = %+v", opts[2])
	}
	nearlyEqual(t, "iridium gold/day", opts[2].GoldPerDay, 2250.0/56)

	fromGold := AgingOptions(wine, bucket, catalog.QualityGold)
	if len(fromGold) != 1 || fromGold[0].Target != catalog.QualityIridium || fromGold[0].Delta != 1125 {
		t.Fatalf("options from gold = %+v", fromGold)
	}
	if got := AgingOptions(wine, bucket, catalog.QualityIridium); len(got) != 0 {
		t.Fatalf("no targets above iridium, got %+v", got)
	}

	wine.Aging = nil
	if got := AgingOptions(wine, bucket, catalog.QualityNormal); got != nil {
		t.Fatalf("item without aging should have no options, got %+v", got)
	}
}

func TestAgingOptionsSkipsTiersWithoutDuration(t *testing.T) {
	cheese := catalog.Item{
		Name:   "Cheese",
		Prices: catalog.PriceTable{catalog.BucketBase: {Normal: 230, Gold: intp(345)}},
		Aging:  &catalog.AgingDurations{Gold: 7},
	}
	opts := AgingOptions(cheese, cheese.Prices.Base(), catalog.QualityNormal)
	if len(opts) != 1 || opts[0].Target != catalog.QualityGold || opts[0].Delta != 115 {
		t.Fatalf("options = %+v", opts)
	}
}
