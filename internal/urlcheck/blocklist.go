package urlcheck

// DefaultBlockedDomains lists job aggregators, social networks, and ATS
// vendor domains that are never a company's own career site. ATS vendor
// domains are blocked outright; a company-branded ATS subdomain passes only
// when it falls under an allowlisted company domain.
var DefaultBlockedDomains = NewDomainSet([]string{
	"reddit.com",
	"x.com",
	"twitter.com",
	"facebook.com",
	"linkedin.com",
	"instagram.com",
	"selectyouruniversity.com",
	"indeed.com",
	"glassdoor.com",
	"monster.com",
	"stepstone.de",
	"jobware.de",
	"kimeta.de",
	"stellenanzeigen.de",
	"jobs.ch",
	"jobscout24.ch",
	"xing.com",
	"kununu.com",
	"jobboerse.de",
	"arbeitsagentur.de",
	"jobsinnetwork.com",
	"careerjet.com",
	"jobrapido.com",
	"jooble.org",
	"adzuna.com",
	"neuvoo.com",
	"talent.com",
	"careers24.com",
	"jobvite.com",

	// ATS vendors
	"myworkdayjobs.com",
	"greenhouse.io",
	"lever.co",
	"smartrecruiters.com",
	"breezy.hr",
	"recruitee.com",
	"workable.com",
	"applytojob.com",
	"icims.com",
	"ultipro.com",
	"successfactors.com",
	"taleo.net",
	"taleoportal.com",
})
