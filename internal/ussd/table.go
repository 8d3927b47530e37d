package ussd

type dial struct {
	shape Shape
	value string
}

func fixed(sequence string) dial { return dial{shape: ShapeFixedCode, value: sequence} }

func prompt(menu string) dial { return dial{shape: ShapeGenericPrompt, value: menu} }

// Dial sequences are published by the operators; they must not be reformatted.
var routes = map[Provider]map[Country]dial{
	MTNMoMo: {
		Rwanda:   fixed("182*8*1"),
		Uganda:   fixed("165*1"),
		DRC:      prompt("main MTN MoMo USSD"),
		Burundi:  prompt("main MTN MoMo USSD"),
		Kenya:    prompt("main MTN MoMo USSD"),
		Tanzania: prompt("main MTN MoMo USSD"),
	},
	AirtelMoney: {
		Rwanda:   fixed("500*1"),
		Uganda:   fixed("185*1"),
		Tanzania: fixed("150*60"),
		DRC:      prompt("main Airtel Money USSD"),
		Burundi:  prompt("main Airtel Money USSD"),
		Kenya:    prompt("main Airtel Money USSD"),
	},
	OrangeMoney: {
		DRC:      fixed("145*1"),
		Rwanda:   prompt("Orange Money USSD"),
		Uganda:   prompt("Orange Money USSD"),
		Kenya:    prompt("Orange Money USSD"),
		Tanzania: prompt("Orange Money USSD"),
		Burundi:  prompt("Orange Money USSD"),
	},
	MPesa: {
		Kenya:    fixed("334*1"),
		Tanzania: fixed("150*00"),
		DRC:      prompt("M-Pesa USSD"),
		Uganda:   prompt("M-Pesa USSD"),
		Rwanda:   prompt("M-Pesa USSD"),
		Burundi:  prompt("M-Pesa USSD"),
	},
}

var recipientKeys = map[Provider]string{
	MTNMoMo:     KeyMTNMoMo,
	AirtelMoney: KeyAirtelMoney,
	OrangeMoney: KeyOrangeMoney,
	MPesa:       KeyMPesa,
}

var providerNames = map[Provider]string{
	MTNMoMo:     "MTN MoMo",
	AirtelMoney: "Airtel Money",
	OrangeMoney: "Orange Money",
	MPesa:       "M-Pesa",
}

var (
	providerOrder = []Provider{MTNMoMo, AirtelMoney, OrangeMoney, MPesa}
	countryOrder  = []Country{Rwanda, Uganda, Kenya, Tanzania, DRC, Burundi}
)
