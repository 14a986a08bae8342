package catalog

var displayColors = []string{
	"red", "blue", "green", "purple", "pink",
	"indigo", "teal", "orange", "cyan",
}

// cycle spreads a small set of service voices across many catalog entries.
func cycle(names []string, count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = names[i%len(names)]
	}
	return out
}

var (
	femaleVoices = cycle([]string{"Kore", "Charon"}, 17)
	maleVoices   = cycle([]string{"Puck", "Fenrir", "Zephyr"}, 19)
)

var defaultCatalog = New([]Voice{
	{ID: "m-alex", DisplayName: "Alex (Similar)", Gender: Male, Description: "Clear, popular male voice, ideal for narration", SynthesisVoice: "Puck", DisplayColor: displayColors[1]},

	{ID: "f-1", DisplayName: "Aoede", Gender: Female, Description: "Soft, melodic female voice", SynthesisVoice: femaleVoices[0], DisplayColor: displayColors[0]},
	{ID: "f-2", DisplayName: "Autonoe", Gender: Female, Description: "Clear, expressive female voice", SynthesisVoice: femaleVoices[1], DisplayColor: displayColors[1]},
	{ID: "f-3", DisplayName: "Callirrhoe", Gender: Female, Description: "Graceful, calm female voice", SynthesisVoice: femaleVoices[2], DisplayColor: displayColors[2]},
	{ID: "f-4", DisplayName: "Despina", Gender: Female, Description: "Young, energetic female voice", SynthesisVoice: femaleVoices[3], DisplayColor: displayColors[3]},
	{ID: "f-5", DisplayName: "Erinome", Gender: Female, Description: "Mature, confident female voice", SynthesisVoice: femaleVoices[4], DisplayColor: displayColors[4]},
	{ID: "f-6", DisplayName: "Kore", Gender: Female, Description: "Professional, articulate female voice", SynthesisVoice: "Kore", DisplayColor: displayColors[0]},
	{ID: "f-7", DisplayName: "Laomedeia", Gender: Female, Description: "Gentle, friendly female voice", SynthesisVoice: femaleVoices[6], DisplayColor: displayColors[5]},
	{ID: "f-8", DisplayName: "Leda", Gender: Female, Description: "Direct, clear female voice", SynthesisVoice: femaleVoices[7], DisplayColor: displayColors[6]},
	{ID: "f-9", DisplayName: "Pulcherrima", Gender: Female, Description: "Elegant, sophisticated female voice", SynthesisVoice: femaleVoices[8], DisplayColor: displayColors[7]},
	{ID: "f-10", DisplayName: "Sadachbia", Gender: Female, Description: "Mysterious, smooth female voice", SynthesisVoice: femaleVoices[9], DisplayColor: displayColors[8]},
	{ID: "f-11", DisplayName: "Schedar", Gender: Female, Description: "Strong, resonant female voice", SynthesisVoice: femaleVoices[10], DisplayColor: displayColors[0]},
	{ID: "f-12", DisplayName: "Sulafat", Gender: Female, Description: "Warm, welcoming female voice", SynthesisVoice: femaleVoices[11], DisplayColor: displayColors[1]},
	{ID: "f-13", DisplayName: "Vindemiatrix", Gender: Female, Description: "Crisp, precise female voice", SynthesisVoice: femaleVoices[12], DisplayColor: displayColors[2]},
	{ID: "f-14", DisplayName: "Zephyr (F)", Gender: Female, Description: "Light, airy female voice", SynthesisVoice: "Kore", DisplayColor: displayColors[3]},
	{ID: "f-15", DisplayName: "Thalassa", Gender: Female, Description: "Deep, soothing female voice", SynthesisVoice: femaleVoices[14], DisplayColor: displayColors[4]},
	{ID: "f-16", DisplayName: "Ersa", Gender: Female, Description: "Female voice soft as dew", SynthesisVoice: femaleVoices[15], DisplayColor: displayColors[5]},
	{ID: "f-17", DisplayName: "Pandia", Gender: Female, Description: "Bright, clear female voice", SynthesisVoice: femaleVoices[16], DisplayColor: displayColors[6]},

	{ID: "m-1", DisplayName: "Achernar", Gender: Male, Description: "Deep, authoritative male voice", SynthesisVoice: maleVoices[0], DisplayColor: displayColors[0]},
	{ID: "m-2", DisplayName: "Achird", Gender: Male, Description: "Calm, thoughtful male voice", SynthesisVoice: maleVoices[1], DisplayColor: displayColors[1]},
	{ID: "m-3", DisplayName: "Algenib", Gender: Male, Description: "Clear narrative male voice", SynthesisVoice: maleVoices[2], DisplayColor: displayColors[2]},
	{ID: "m-4", DisplayName: "Algieba", Gender: Male, Description: "Friendly, conversational male voice", SynthesisVoice: maleVoices[3], DisplayColor: displayColors[3]},
	{ID: "m-5", DisplayName: "Alnilam", Gender: Male, Description: "Strong, heroic male voice", SynthesisVoice: maleVoices[4], DisplayColor: displayColors[4]},
	{ID: "m-6", DisplayName: "Charon", Gender: Male, Description: "Low, somber male voice", SynthesisVoice: "Fenrir", DisplayColor: displayColors[5]},
	{ID: "m-7", DisplayName: "Enceladus", Gender: Male, Description: "Wise, ancient male voice", SynthesisVoice: maleVoices[6], DisplayColor: displayColors[6]},
	{ID: "m-8", DisplayName: "Fenrir", Gender: Male, Description: "Assertive, powerful male voice", SynthesisVoice: "Fenrir", DisplayColor: displayColors[7]},
	{ID: "m-9", DisplayName: "Gacrux", Gender: Male, Description: "Steady, reliable male voice", SynthesisVoice: maleVoices[8], DisplayColor: displayColors[8]},
	{ID: "m-10", DisplayName: "Iapetus", Gender: Male, Description: "Resonant, epic male voice", SynthesisVoice: maleVoices[9], DisplayColor: displayColors[0]},
	{ID: "m-11", DisplayName: "Orus", Gender: Male, Description: "Young, upbeat male voice", SynthesisVoice: maleVoices[10], DisplayColor: displayColors[1]},
	{ID: "m-12", DisplayName: "Puck", Gender: Male, Description: "Energetic, lively male voice", SynthesisVoice: "Puck", DisplayColor: displayColors[2]},
	{ID: "m-13", DisplayName: "Rasalgethi", Gender: Male, Description: "Husky, seasoned male voice", SynthesisVoice: maleVoices[12], DisplayColor: displayColors[3]},
	{ID: "m-14", DisplayName: "Sadaltager", Gender: Male, Description: "Formal, informative male voice", SynthesisVoice: maleVoices[13], DisplayColor: displayColors[4]},
	{ID: "m-15", DisplayName: "Umbriel", Gender: Male, Description: "Soft, introspective male voice", SynthesisVoice: maleVoices[14], DisplayColor: displayColors[5]},
	{ID: "m-16", DisplayName: "Zubenelgenubi", Gender: Male, Description: "Unique, distinctive male voice", SynthesisVoice: maleVoices[15], DisplayColor: displayColors[6]},
	{ID: "m-17", DisplayName: "Zosma", Gender: Male, Description: "Steady, professorial male voice", SynthesisVoice: maleVoices[16], DisplayColor: displayColors[7]},
	{ID: "m-18", DisplayName: "Fornax", Gender: Male, Description: "Warm, low male voice", SynthesisVoice: maleVoices[17], DisplayColor: displayColors[8]},
	{ID: "m-19", DisplayName: "Caelus", Gender: Male, Description: "Ethereal, inspiring male voice", SynthesisVoice: maleVoices[18], DisplayColor: displayColors[0]},
})
