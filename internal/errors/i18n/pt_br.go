package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		// Character errors
		CodeCharacterEmptyName:        "O nome do personagem não pode ficar vazio",
		CodeCharacterInvalidMaxHealth: "A vida máxima deve ser pelo menos 1",
		CodeCharacterInvalidAttribute: "Atributo desconhecido: {{.Attribute}}",

		// Campaign errors
		CodeCampaignEmptyCharacterID: "O ID do personagem é obrigatório para a campanha",
		CodeCampaignInactive:         "Esta campanha já foi encerrada",

		// Action errors
		CodeActionEmptyText: "O texto da ação não pode ficar vazio",

		// Storage errors
		CodeNotFound:     "O recurso solicitado não foi encontrado",
		CodeTurnConflict: "Outra ação terminou primeiro, tente novamente",

		// Listing errors
		CodeFilterInvalid: "Expressão de filtro inválida",

		// Transport errors
		CodeRequestInvalid: "Não foi possível interpretar o corpo da requisição",
	},
}
