package domain

// FlowerCatalog is the fixed hanakotoba reference set. It is immutable
// after package initialisation and safe to share across requests.
var FlowerCatalog = []Flower{
	// Spring
	{
		Name:      "桜",
		NameEn:    "Cherry Blossom",
		Meaning:   "精神美、優美な女性",
		MeaningEn: "Spiritual beauty, elegant woman",
		Colors:    []string{"pink", "white"},
		Season:    SeasonSpring,
		Rarity:    RarityCommon,
	},
	{
		Name:      "菜の花",
		NameEn:    "Rapeseed Flower",
		Meaning:   "快活、明るさ",
		MeaningEn: "Cheerfulness, brightness",
		Colors:    []string{"yellow"},
		Season:    SeasonSpring,
		Rarity:    RarityCommon,
	},
	{
		Name:      "チューリップ",
		NameEn:    "Tulip",
		Meaning:   "思いやり、博愛",
		MeaningEn: "Compassion, charity",
		Colors:    []string{"red", "pink", "yellow", "white", "purple"},
		Season:    SeasonSpring,
		Rarity:    RarityCommon,
	},
	{
		Name:      "スイートピー",
		NameEn:    "Sweet Pea",
		Meaning:   "門出、別れの言葉",
		MeaningEn: "Departure, farewell",
		Colors:    []string{"pink", "purple", "white"},
		Season:    SeasonSpring,
		Rarity:    RarityCommon,
	},
	{
		Name:      "スズラン",
		NameEn:    "Lily of the Valley",
		Meaning:   "再び幸せが訪れる、謙遜",
		MeaningEn: "Return of happiness, humility",
		Colors:    []string{"white"},
		Season:    SeasonSpring,
		Rarity:    RarityRare,
	},

	// Summer
	{
		Name:      "バラ",
		NameEn:    "Rose",
		Meaning:   "愛、美",
		MeaningEn: "Love, beauty",
		Colors:    []string{"red", "pink", "white", "yellow", "orange"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "ひまわり",
		NameEn:    "Sunflower",
		Meaning:   "憧れ、崇拝",
		MeaningEn: "Adoration, worship",
		Colors:    []string{"yellow"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "カーネーション",
		NameEn:    "Carnation",
		Meaning:   "無垢で深い愛",
		MeaningEn: "Pure and deep love",
		Colors:    []string{"red", "pink", "white", "yellow"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "ガーベラ",
		NameEn:    "Gerbera",
		Meaning:   "希望、常に前進",
		MeaningEn: "Hope, always moving forward",
		Colors:    []string{"red", "pink", "yellow", "orange", "white"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "朝顔",
		NameEn:    "Morning Glory",
		Meaning:   "はかない恋、平静",
		MeaningEn: "Fleeting love, tranquility",
		Colors:    []string{"blue", "purple", "pink", "white"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "百合",
		NameEn:    "Lily",
		Meaning:   "純粋、無垢",
		MeaningEn: "Purity, innocence",
		Colors:    []string{"white", "pink", "yellow", "orange"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},
	{
		Name:      "紫陽花",
		NameEn:    "Hydrangea",
		Meaning:   "移り気、高慢",
		MeaningEn: "Fickleness, pride",
		Colors:    []string{"blue", "purple", "pink", "white"},
		Season:    SeasonSummer,
		Rarity:    RarityCommon,
	},

	// Autumn
	{
		Name:      "コスモス",
		NameEn:    "Cosmos",
		Meaning:   "乙女の真心、調和",
		MeaningEn: "Maiden's sincerity, harmony",
		Colors:    []string{"pink", "white", "red"},
		Season:    SeasonAutumn,
		Rarity:    RarityCommon,
	},
	{
		Name:      "菊",
		NameEn:    "Chrysanthemum",
		Meaning:   "高貴、高尚",
		MeaningEn: "Nobility, dignity",
		Colors:    []string{"yellow", "white", "red", "purple"},
		Season:    SeasonAutumn,
		Rarity:    RarityCommon,
	},
	{
		Name:      "彼岸花",
		NameEn:    "Spider Lily",
		Meaning:   "悲しい思い出、あきらめ",
		MeaningEn: "Sad memories, resignation",
		Colors:    []string{"red"},
		Season:    SeasonAutumn,
		Rarity:    RarityRare,
	},
	{
		Name:      "キンモクセイ",
		NameEn:    "Osmanthus",
		Meaning:   "謙遜、気高い人",
		MeaningEn: "Modesty, noble person",
		Colors:    []string{"orange"},
		Season:    SeasonAutumn,
		Rarity:    RarityCommon,
	},

	// Winter
	{
		Name:      "椿",
		NameEn:    "Camellia",
		Meaning:   "控えめな優しさ、誇り",
		MeaningEn: "Modest kindness, pride",
		Colors:    []string{"red", "pink", "white"},
		Season:    SeasonWinter,
		Rarity:    RarityCommon,
	},
	{
		Name:      "水仙",
		NameEn:    "Narcissus",
		Meaning:   "うぬぼれ、自己愛",
		MeaningEn: "Vanity, self-love",
		Colors:    []string{"white", "yellow"},
		Season:    SeasonWinter,
		Rarity:    RarityCommon,
	},
	{
		Name:      "梅",
		NameEn:    "Plum Blossom",
		Meaning:   "忍耐、高潔",
		MeaningEn: "Patience, nobility",
		Colors:    []string{"white", "pink", "red"},
		Season:    SeasonWinter,
		Rarity:    RarityCommon,
	},
	{
		Name:      "シクラメン",
		NameEn:    "Cyclamen",
		Meaning:   "遠慮、気後れ",
		MeaningEn: "Restraint, shyness",
		Colors:    []string{"pink", "red", "white"},
		Season:    SeasonWinter,
		Rarity:    RarityCommon,
	},
	{
		Name:      "ポインセチア",
		NameEn:    "Poinsettia",
		Meaning:   "祝福、幸運を祈る",
		MeaningEn: "Blessing, wishing good luck",
		Colors:    []string{"red", "white", "pink"},
		Season:    SeasonWinter,
		Rarity:    RarityCommon,
	},

	// Year round
	{
		Name:      "かすみ草",
		NameEn:    "Baby's Breath",
		Meaning:   "清らかな心、無邪気",
		MeaningEn: "Pure heart, innocence",
		Colors:    []string{"white"},
		Season:    SeasonAll,
		Rarity:    RarityCommon,
	},
	{
		Name:      "トルコキキョウ",
		NameEn:    "Lisianthus",
		Meaning:   "優美、希望",
		MeaningEn: "Elegance, hope",
		Colors:    []string{"purple", "pink", "white", "yellow"},
		Season:    SeasonAll,
		Rarity:    RarityCommon,
	},
	{
		Name:      "胡蝶蘭",
		NameEn:    "Phalaenopsis Orchid",
		Meaning:   "幸福が飛んでくる、純粋な愛",
		MeaningEn: "Happiness comes flying, pure love",
		Colors:    []string{"white", "pink", "purple"},
		Season:    SeasonAll,
		Rarity:    RarityExotic,
	},
	{
		Name:      "アンスリウム",
		NameEn:    "Anthurium",
		Meaning:   "煩悩、恋にもだえる心",
		MeaningEn: "Worldly desires, heart suffering from love",
		Colors:    []string{"red", "pink", "white"},
		Season:    SeasonAll,
		Rarity:    RarityRare,
	},
}

// EmotionFlowerNames maps curated emotion tags to native flower names in
// the catalog. Lookups are case-insensitive on the tag; unknown tags
// resolve to nothing rather than erroring.
var EmotionFlowerNames = map[string][]string{
	"joy":         {"ひまわり", "ガーベラ", "菜の花", "チューリップ"},
	"love":        {"バラ", "カーネーション", "胡蝶蘭"},
	"sadness":     {"彼岸花", "スイートピー", "紫陽花"},
	"gratitude":   {"かすみ草", "カーネーション", "ガーベラ"},
	"hope":        {"ガーベラ", "トルコキキョウ", "スズラン"},
	"peace":       {"百合", "朝顔", "スズラン"},
	"beauty":      {"バラ", "桜", "椿"},
	"purity":      {"百合", "かすみ草", "カーネーション"},
	"farewell":    {"スイートピー", "彼岸花"},
	"celebration": {"ポインセチア", "ひまわり", "ガーベラ"},
}
