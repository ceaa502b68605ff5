package detector

import "github.com/mikey/fakenews-detector/internal/core"

var seedFake = []string{
	"Scientists discover aliens living among us",
	"Celebrity dies in fake car crash hoax",
	"Government secretly controls weather with machines",
	"Miracle cure discovered that doctors don't want you to know",
	"Breaking: World ending tomorrow according to ancient prophecy",
	"Local man discovers this one weird trick billionaires hate",
	"Shocking truth about vaccines that will surprise you",
	"Celebrity spotted with three-headed baby",
	"Government admits to hiding alien technology for decades",
	"New study proves chocolate cures all diseases",
	"You won't believe what this dog did to save its owner!",
	"Doctors hate her for this one simple trick",
	"Lose 20 pounds in a week with this miracle fruit",
	"Aliens built the pyramids, new evidence suggests",
	"Secret society controls the world economy",
}

var seedReal = []string{
	"Stock market closes higher amid economic recovery",
	"New climate change report released by scientists",
	"Local school receives funding for new programs",
	"Technology company announces quarterly earnings",
	"City council approves new infrastructure project",
	"Research shows benefits of regular exercise",
	"Weather forecast predicts rain for weekend",
	"University launches new scholarship program",
	"Hospital opens new treatment facility",
	"Transportation authority updates bus schedules",
	"President addresses the nation on economic policy",
	"Scientists publish new findings on COVID-19",
	"Local elections see record voter turnout",
	"UN holds summit on climate change",
	"FDA approves new treatment for diabetes",
}

// SeedCorpus returns the embedded demo training set, fake headlines first
func SeedCorpus() ([]string, []core.Label) {
	headlines := make([]string, 0, len(seedFake)+len(seedReal))
	labels := make([]core.Label, 0, cap(headlines))
	for _, h := range seedFake {
		headlines = append(headlines, h)
		labels = append(labels, core.LabelFake)
	}
	for _, h := range seedReal {
		headlines = append(headlines, h)
		labels = append(labels, core.LabelReal)
	}
	return headlines, labels
}
