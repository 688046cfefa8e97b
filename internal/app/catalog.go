package app

// BrazilianState is a federative unit offered in the vehicle form.
type BrazilianState struct {
	UF   string `json:"uf"`
	Name string `json:"name"`
}

// Label is the selector text, e.g. "SP - São Paulo".
func (s BrazilianState) Label() string {
	return s.UF + " - " + s.Name
}

// States lists the 27 federative units in selector order.
var States = []BrazilianState{
	{"AC", "Acre"},
	{"AL", "Alagoas"},
	{"AP", "Amapá"},
	{"AM", "Amazonas"},
	{"BA", "Bahia"},
	{"CE", "Ceará"},
	{"DF", "Distrito Federal"},
	{"ES", "Espírito Santo"},
	{"GO", "Goiás"},
	{"MA", "Maranhão"},
	{"MT", "Mato Grosso"},
	{"MS", "Mato Grosso do Sul"},
	{"MG", "Minas Gerais"},
	{"PA", "Pará"},
	{"PB", "Paraíba"},
	{"PR", "Paraná"},
	{"PE", "Pernambuco"},
	{"PI", "Piauí"},
	{"RJ", "Rio de Janeiro"},
	{"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"},
	{"RO", "Rondônia"},
	{"RR", "Roraima"},
	{"SC", "Santa Catarina"},
	{"SP", "São Paulo"},
	{"SE", "Sergipe"},
	{"TO", "Tocantins"},
}

// PredefinedMessages are the one-tap alert messages.
var PredefinedMessages = []string{
	"Carro impedindo saída, por favor retirar",
	"Luzes acesas!",
	"Pneu murcho",
	"Porta-malas aberto",
	"Janela aberta",
}

// User-facing texts.
const (
	NoticeUserRegistered    = "Usuário cadastrado com sucesso!"
	NoticeVehicleRegistered = "Veículo cadastrado com sucesso!"
	PromptUnknownPlateText  = "Veículo não encontrado. Deseja cadastrar um novo veículo?"
)
