package geocoder

import (
	"context"

	"go.uber.org/zap"

	"starburger.dev/FoodCart/configs"
	yandexmaps "starburger.dev/FoodCart/pkg/geocoder/yandex-maps"
)

// Geocoder resolves free-text addresses against an external provider. It
// does no caching and no retries; callers own both.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lon float64, lat float64, err error)
}

func GetGeocoder(name string, conf *configs.Config, logger *zap.Logger) Geocoder {
	if name == yandexmaps.GeocoderName {
		return yandexmaps.NewClient(conf.Geocoder.APIKey, conf.Geocoder.BaseURL, conf.Geocoder.Timeout, logger)
	}

	return nil
}
