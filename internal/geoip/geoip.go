// Package geoip оборачивает локальную базу GeoIP2/GeoLite2.
// Любой сбой здесь деградирует до "unknown" и никогда не поднимается
// выше сервиса просмотров.
package geoip

import (
	"net"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrLookupFailed = errors.New("[geoip]: lookup failed")

// Resolver разрешает IP адрес в гео-данные. Нулевой resolver (без базы)
// валиден: каждый запрос к нему отвечает ErrLookupFailed.
type Resolver struct {
	reader *geoip2.Reader
	logger *logrus.Entry
}

// New открывает mmdb базу по указанному пути. Пустой путь — осознанный
// запуск без гео-данных, ошибкой не считается.
func New(dbPath string, logger *logrus.Logger) (*Resolver, error) {
	entry := logger.WithField("module", "geoip")
	if dbPath == "" {
		entry.Warn("geoip database path is empty, location lookups disabled")
		return &Resolver{logger: entry}, nil
	}
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open geoip database %s", dbPath)
	}
	return &Resolver{reader: reader, logger: entry}, nil
}

// Lookup возвращает гео-данные по IP либо ErrLookupFailed.
func (r *Resolver) Lookup(ipStr string) (*models.Location, error) {
	if r == nil || r.reader == nil {
		return nil, errors.Wrap(ErrLookupFailed, "geoip database is not loaded")
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil, errors.Wrapf(ErrLookupFailed, "invalid ip %q", ipStr)
	}

	city, err := r.reader.City(ip)
	if err != nil {
		return nil, errors.Wrapf(ErrLookupFailed, "lookup ip %s: %s", ipStr, err.Error())
	}

	loc := models.Location{
		City:        city.City.Names["en"],
		Country:     city.Country.IsoCode,
		Postal:      city.Postal.Code,
		Timezone:    city.Location.TimeZone,
		StateRegion: "",
	}
	if len(city.Subdivisions) > 0 {
		loc.StateRegion = city.Subdivisions[0].IsoCode
	}

	// База может вернуть пустую запись для неизвестных диапазонов —
	// добиваем сентинелами, чтобы агрегатор не плодил пустые ключи.
	fillUnknown(&loc)
	return &loc, nil
}

func fillUnknown(loc *models.Location) {
	if loc.City == "" {
		loc.City = models.LocationUnknown
	}
	if loc.StateRegion == "" {
		loc.StateRegion = models.LocationUnknown
	}
	if loc.Country == "" {
		loc.Country = models.LocationUnknown
	}
	if loc.Postal == "" {
		loc.Postal = models.LocationUnknown
	}
	if loc.Timezone == "" {
		loc.Timezone = models.LocationUnknown
	}
}

// Close закрывает mmdb. Безопасен для resolver без базы.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return errors.Wrap(r.reader.Close(), "close geoip database")
}
