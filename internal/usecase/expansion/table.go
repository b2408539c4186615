package expansion

// defaultTable maps a lowercase term to its synonyms. Order is significant:
// Expand appends synonyms in the order they are listed here.
var defaultTable = []Entry{
	// Prayer
	{"prayer", []string{"salah", "salat", "namaz", "pray", "praying", "prayers"}},
	{"salah", []string{"prayer", "salat", "namaz", "pray"}},
	{"salat", []string{"prayer", "salah", "namaz", "pray"}},
	{"namaz", []string{"prayer", "salah", "salat", "pray"}},

	// Prayer positions and actions
	{"rafa", []string{"raising", "raise", "lifted", "hands", "yadain"}},
	{"yadain", []string{"hands", "raising", "rafa", "lifted"}},
	{"raising", []string{"rafa", "yadain", "hands", "lifted", "takbir"}},
	{"hands", []string{"rafa", "yadain", "raising"}},
	{"takbir", []string{"allahu akbar", "raising hands", "rafa", "opening"}},
	{"ruku", []string{"bowing", "bow", "bent"}},
	{"bowing", []string{"ruku", "bow", "bent"}},
	{"sujud", []string{"prostration", "prostrate", "sajdah"}},
	{"prostration", []string{"sujud", "sajdah", "prostrate"}},
	{"sajdah", []string{"sujud", "prostration", "prostrate"}},
	{"qiyam", []string{"standing", "stand"}},
	{"standing", []string{"qiyam", "stand"}},

	// Fasting
	{"fasting", []string{"sawm", "siyam", "roza", "ramadan", "fast", "fasts", "saum"}},
	{"sawm", []string{"fasting", "siyam", "roza", "fast", "saum"}},
	{"saum", []string{"fasting", "sawm", "siyam", "fast"}},
	{"siyam", []string{"fasting", "sawm", "roza", "fast"}},
	{"ramadan", []string{"fasting", "sawm", "siyam", "fast", "saum"}},
	{"fast", []string{"fasting", "sawm", "siyam", "ramadan", "saum"}},

	// Fasting invalidators (what breaks the fast)
	{"break", []string{"invalidate", "nullify", "void", "cancel", "breaks", "breaking", "broke"}},
	{"breaks", []string{"break", "invalidate", "nullify", "void", "broke", "breaking"}},
	{"broke", []string{"break", "breaks", "invalidate", "nullify"}},
	{"invalidate", []string{"break", "nullify", "void", "cancel", "breaks"}},
	{"nullify", []string{"break", "invalidate", "void", "cancel"}},
	{"void", []string{"break", "invalidate", "nullify", "cancel"}},

	// Fasting actions
	{"eat", []string{"eating", "food", "ate", "swallow", "consume"}},
	{"eating", []string{"food", "eat", "meals"}},
	{"drink", []string{"drinking", "water", "drank", "beverage"}},
	{"drinking", []string{"drink", "water", "drank", "beverage"}},
	{"intercourse", []string{"sexual", "relations", "spouse", "intimacy", "intimate"}},
	{"sexual", []string{"intercourse", "relations", "intimacy", "intimate"}},
	{"vomit", []string{"vomiting", "intentional", "deliberate"}},
	{"cupping", []string{"hijama", "bloodletting"}},
	{"hijama", []string{"cupping", "bloodletting"}},

	// Ramadan specifics
	{"iftar", []string{"breaking fast", "sunset", "maghrib", "break"}},
	{"suhoor", []string{"sahur", "sehri", "pre-dawn", "sahoor"}},
	{"sahur", []string{"suhoor", "sehri", "pre-dawn"}},

	// Charity
	{"charity", []string{"zakat", "sadaqah", "alms", "giving", "donate"}},
	{"zakat", []string{"charity", "sadaqah", "alms", "obligatory charity"}},
	{"sadaqah", []string{"charity", "zakat", "alms", "voluntary charity"}},
	{"alms", []string{"charity", "zakat", "sadaqah"}},

	// Pilgrimage
	{"pilgrimage", []string{"hajj", "umrah", "mecca", "kaaba", "pilgrim"}},
	{"hajj", []string{"pilgrimage", "umrah", "mecca", "kaaba"}},
	{"umrah", []string{"pilgrimage", "hajj", "mecca", "kaaba"}},
	{"mecca", []string{"hajj", "umrah", "kaaba", "pilgrimage"}},
	{"kaaba", []string{"hajj", "umrah", "mecca", "pilgrimage"}},

	// Family
	{"parents", []string{"mother", "father", "walidayn", "birr", "parent"}},
	{"mother", []string{"parents", "father", "walidayn", "umm"}},
	{"father", []string{"parents", "mother", "walidayn", "abb"}},
	{"children", []string{"child", "son", "daughter", "offspring", "kids"}},
	{"wife", []string{"spouse", "marriage", "nikah", "husband", "wives"}},
	{"husband", []string{"spouse", "marriage", "nikah", "wife"}},
	{"marriage", []string{"nikah", "wedding", "spouse", "wife", "husband"}},
	{"nikah", []string{"marriage", "wedding", "spouse"}},

	// Neighbors
	{"neighbor", []string{"neighbours", "neighbors", "jar", "neighbourhood"}},
	{"neighbours", []string{"neighbor", "neighbors", "jar"}},
	{"neighbors", []string{"neighbor", "neighbours", "jar"}},

	// Virtues
	{"honest", []string{"honesty", "truthful", "truth", "sidq", "truthfulness"}},
	{"honesty", []string{"honest", "truthful", "truth", "sidq"}},
	{"truthful", []string{"honest", "honesty", "truth", "sidq"}},
	{"patience", []string{"sabr", "patient", "perseverance", "endurance"}},
	{"sabr", []string{"patience", "patient", "perseverance"}},
	{"kind", []string{"kindness", "ihsan", "good", "gentle", "merciful"}},
	{"kindness", []string{"kind", "ihsan", "good", "gentle", "mercy"}},
	{"ihsan", []string{"kindness", "excellence", "perfection", "good"}},
	{"mercy", []string{"merciful", "rahma", "compassion", "kind"}},
	{"merciful", []string{"mercy", "rahma", "compassion", "kind"}},

	// Afterlife
	{"death", []string{"dying", "mawt", "deceased", "die", "dead"}},
	{"paradise", []string{"jannah", "heaven", "garden", "gardens"}},
	{"jannah", []string{"paradise", "heaven", "garden"}},
	{"heaven", []string{"paradise", "jannah", "garden"}},
	{"hell", []string{"jahannam", "hellfire", "fire", "punishment"}},
	{"jahannam", []string{"hell", "hellfire", "fire"}},
	{"hellfire", []string{"hell", "jahannam", "fire"}},

	// Faith
	{"faith", []string{"iman", "belief", "believe", "believer"}},
	{"iman", []string{"faith", "belief", "believe"}},
	{"believer", []string{"faith", "iman", "muslim", "mumin"}},
	{"islam", []string{"muslim", "religion", "deen"}},
	{"muslim", []string{"islam", "believer", "mumin"}},

	// Knowledge
	{"knowledge", []string{"ilm", "learn", "learning", "scholar", "wisdom"}},
	{"ilm", []string{"knowledge", "learn", "learning"}},
	{"scholar", []string{"knowledge", "alim", "ulama", "learned"}},

	// Worship
	{"worship", []string{"ibadah", "devotion", "obedience"}},
	{"ibadah", []string{"worship", "devotion", "obedience"}},
	{"dua", []string{"supplication", "prayer", "invocation", "asking"}},
	{"supplication", []string{"dua", "prayer", "invocation"}},

	// Prophet
	{"prophet", []string{"messenger", "rasul", "nabi", "muhammad"}},
	{"messenger", []string{"prophet", "rasul", "nabi"}},

	// Actions
	{"sin", []string{"sins", "sinful", "transgression", "wrongdoing", "evil"}},
	{"good", []string{"righteous", "virtue", "virtuous", "goodness"}},
	{"evil", []string{"bad", "sin", "wrong", "wicked"}},
	{"forgive", []string{"forgiveness", "pardon", "mercy", "maghfira"}},
	{"forgiveness", []string{"forgive", "pardon", "mercy"}},
	{"repent", []string{"repentance", "tawba", "tawbah", "return"}},
	{"repentance", []string{"repent", "tawba", "tawbah"}},

	// Daily life
	{"food", []string{"eating", "eat", "drink", "halal", "haram"}},
	{"sleep", []string{"sleeping", "rest", "night"}},
	{"travel", []string{"journey", "traveling", "traveler"}},
	{"wealth", []string{"money", "rich", "poor", "property"}},
	{"money", []string{"wealth", "gold", "silver", "property"}},
	{"poor", []string{"poverty", "needy", "miskin", "faqir"}},
	{"rich", []string{"wealthy", "wealth", "money"}},

	// Social
	{"friend", []string{"friends", "friendship", "companion", "brother"}},
	{"enemy", []string{"enemies", "hatred", "enmity"}},
	{"guest", []string{"guests", "hospitality", "host"}},
	{"rights", []string{"right", "haqq", "obligation", "duty"}},

	// Clothing
	{"clothes", []string{"clothing", "dress", "garment", "wear"}},
	{"hijab", []string{"covering", "modesty", "veil"}},

	// Misc
	{"anger", []string{"angry", "wrath", "rage", "temper"}},
	{"lying", []string{"lie", "lies", "falsehood", "liar"}},
	{"backbiting", []string{"gheeba", "gossip", "slander"}},
	{"arrogance", []string{"arrogant", "pride", "kibr", "proud"}},
	{"humble", []string{"humility", "modest", "modesty"}},
	{"clean", []string{"cleanliness", "purity", "tahara", "wudu"}},
	{"wudu", []string{"ablution", "purity", "cleanliness"}},
	{"ablution", []string{"wudu", "cleanliness", "purity"}},
	{"friday", []string{"jumuah", "jummah", "congregation"}},
	{"jumuah", []string{"friday", "jummah", "congregation"}},
	{"mosque", []string{"masjid", "prayer place"}},
	{"masjid", []string{"mosque", "prayer place"}},
	{"quran", []string{"book", "scripture", "recitation"}},
	{"sunnah", []string{"tradition", "practice", "way"}},
	{"hadith", []string{"tradition", "narration", "saying"}},
	{"jihad", []string{"struggle", "striving", "effort"}},
	{"war", []string{"battle", "fight", "fighting", "combat"}},
	{"peace", []string{"salam", "peaceful", "reconciliation"}},
}
