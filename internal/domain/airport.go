package domain

import "strings"

// AirportCode is one of the airports the airline network serves.
type AirportCode string

const (
	AirportDEL AirportCode = "DEL"
	AirportBOM AirportCode = "BOM"
	AirportBLR AirportCode = "BLR"
	AirportMAA AirportCode = "MAA"
	AirportHYD AirportCode = "HYD"
	AirportCCU AirportCode = "CCU"
	AirportGOI AirportCode = "GOI"
	AirportPNQ AirportCode = "PNQ"
	AirportAMD AirportCode = "AMD"
	AirportCOK AirportCode = "COK"
)

var airportCodes = []AirportCode{
	AirportDEL, AirportBOM, AirportBLR, AirportMAA, AirportHYD,
	AirportCCU, AirportGOI, AirportPNQ, AirportAMD, AirportCOK,
}

func AirportCodes() []AirportCode {
	out := make([]AirportCode, len(airportCodes))
	copy(out, airportCodes)
	return out
}

func (c AirportCode) Valid() bool {
	for _, known := range airportCodes {
		if c == known {
			return true
		}
	}
	return false
}

// ParseAirportCode accepts codes in any letter case.
func ParseAirportCode(s string) (AirportCode, error) {
	code := AirportCode(strings.ToUpper(strings.TrimSpace(s)))
	if !code.Valid() {
		return "", BusinessRule("Invalid airport code: " + s)
	}
	return code, nil
}
