package weather

import (
	"time"

	"github.com/sorgulen/tjenesteportal/internal/domain"
)

// Advise returns the timing recommendations for performing a service at the
// given date. The rules only look at month and hour, never at live weather.
func Advise(serviceType domain.ServiceType, date time.Time) []string {
	month := date.Month()
	hour := date.Hour()
	var recommendations []string

	switch serviceType {
	case domain.ServiceBroyting:
		if month >= time.November || month <= time.March {
			recommendations = append(recommendations,
				"Optimal sesong for brøyting",
				"Kaldt vær gir bedre arbeidsforhold",
			)
		} else {
			recommendations = append(recommendations, "Ikke brøytesesong - vurder andre tjenester")
		}

	case domain.ServicePlenklipping:
		if month >= time.April && month <= time.October {
			recommendations = append(recommendations, "Vekstsesong - perfekt for plenklipping")
			if hour >= 8 && hour <= 16 {
				recommendations = append(recommendations, "Ideelt tidspunkt på dagen")
			}
		} else {
			recommendations = append(recommendations, "Utenfor vekstsesong - begrenset effekt")
		}

	case domain.ServiceTrefelling:
		if month >= time.November || month <= time.April {
			recommendations = append(recommendations,
				"Optimal sesong - trær er i hvile",
				"Mindre vind om vinteren gir tryggere arbeid",
			)
		}
		if hour >= 9 && hour <= 15 {
			recommendations = append(recommendations, "Beste lysforhold for sikker trefelling")
		}

	case domain.ServiceDiverse:
		recommendations = append(recommendations, "Fleksibel tjeneste - tilpasses værforhold")
		if hour >= 8 && hour <= 17 {
			recommendations = append(recommendations, "Normal arbeidstid gir best tilgjengelighet")
		}
	}

	if len(recommendations) == 0 {
		return []string{"Analyserer værdata for optimal timing"}
	}
	return recommendations
}
